package port

import "dex_data/internal/domain/entity"

// TokenProvider resolves token descriptors from locally known token lists.
type TokenProvider interface {
	GetToken(chainID entity.ChainID, address string) (entity.Token, bool)
	GetTokensByChainID(chainID entity.ChainID) []entity.Token
}
