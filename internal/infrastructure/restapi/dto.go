package restapi

import (
	"dex_data/internal/domain/entity"
	"dex_data/internal/pkg/utils"
)

// APIResponse is the envelope of every data endpoint.
type APIResponse struct {
	Data         any    `json:"data"`
	Error        string `json:"error,omitempty"`
	IsValidating bool   `json:"isValidating"`
}

// AmountDTO renders a TokenAmount.
type AmountDTO struct {
	Token     entity.Token `json:"token"`
	Raw       string       `json:"raw"`
	Exact     string       `json:"exact"`
	Formatted string       `json:"formatted"`
}

// PairDTO renders the reserves of a pair.
type PairDTO struct {
	Address  string    `json:"address"`
	Reserve0 AmountDTO `json:"reserve0"`
	Reserve1 AmountDTO `json:"reserve1"`
}

const formattedPlaces = 6

func newAmountDTO(a *entity.TokenAmount) any {
	if a == nil {
		return nil
	}
	return amountDTO(*a)
}

func amountDTO(a entity.TokenAmount) AmountDTO {
	raw := a.Raw()
	return AmountDTO{
		Token:     a.Token(),
		Raw:       raw.String(),
		Exact:     a.ToExact(),
		Formatted: utils.FormatBigIntFixed(raw, a.Token().Decimals, formattedPlaces),
	}
}

func newPairDTO(p *entity.Pair) any {
	if p == nil {
		return nil
	}
	return PairDTO{
		Address:  p.Address(),
		Reserve0: amountDTO(p.Reserve0()),
		Reserve1: amountDTO(p.Reserve1()),
	}
}

func newTokenDTO(t *entity.Token) any {
	if t == nil {
		return nil
	}
	return *t
}

func newRemoteTokensDTO(tokens []entity.RemoteToken) any {
	if tokens == nil {
		return nil
	}
	return tokens
}
