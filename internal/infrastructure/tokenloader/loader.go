package tokenloader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dex_data/internal/app/port"
	"dex_data/internal/domain/entity"
	"dex_data/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
)

// TokenFileLoader implements the port.TokenProvider interface over per-network JSON token lists.
type TokenFileLoader struct {
	tokenDirPath string
	logger       port.Logger
	byChain      map[entity.ChainID][]entity.Token
	byAddress    map[entity.ChainID]map[common.Address]entity.Token
}

// NewTokenLoader creates a new TokenFileLoader. Call Load before serving lookups.
func NewTokenLoader(tokenDirPath string, logger port.Logger) *TokenFileLoader {
	return &TokenFileLoader{
		tokenDirPath: tokenDirPath,
		logger:       logger,
		byChain:      make(map[entity.ChainID][]entity.Token),
		byAddress:    make(map[entity.ChainID]map[common.Address]entity.Token),
	}
}

// Load scans the token directory and reads one <identifier>.json file per known network.
// Tokens whose chain id does not match the file's network are skipped.
func (l *TokenFileLoader) Load(networkDefs []entity.NetworkDefinition) error {
	files, err := os.ReadDir(l.tokenDirPath)
	if err != nil {
		l.logger.Warn("Failed to read token directory, no tokens will be loaded", "path", l.tokenDirPath, "error", err)
		return fmt.Errorf("failed to read token directory %s: %w", l.tokenDirPath, err)
	}

	networksByIdentifier := make(map[string]entity.NetworkDefinition)
	for _, netDef := range networkDefs {
		networksByIdentifier[netDef.Identifier] = netDef
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".json") {
			continue
		}

		identifier := strings.TrimSuffix(strings.ToLower(file.Name()), ".json")
		networkDef, known := networksByIdentifier[identifier]
		if !known {
			l.logger.Info("Token file found for an unknown network, skipping.", "file", file.Name())
			continue
		}

		filePath := filepath.Join(l.tokenDirPath, file.Name())
		entries, err := utils.LoadTokensFromJSON(filePath)
		if err != nil {
			l.logger.Warn("Failed to load tokens from file, skipping file.", "path", filePath, "error", err)
			continue
		}

		loaded := 0
		for _, e := range entries {
			if entity.ChainID(e.ChainID) != networkDef.ChainID {
				l.logger.Warn("Token has mismatched ChainID in file, skipping token.",
					"file", filePath, "token_symbol", e.Symbol, "token_chain_id", e.ChainID,
					"expected_chain_id", networkDef.ChainID)
				continue
			}
			if !common.IsHexAddress(e.Address) {
				l.logger.Warn("Token has invalid address, skipping token.", "file", filePath, "token_address", e.Address)
				continue
			}
			l.add(entity.NewToken(networkDef.ChainID, e.Address, e.Decimals, e.Symbol, e.Name))
			loaded++
		}

		l.logger.Info("Loaded tokens for network from file", "network", networkDef.Identifier, "file", file.Name(), "count", loaded)
	}
	return nil
}

func (l *TokenFileLoader) add(token entity.Token) {
	addr := common.HexToAddress(token.Address)
	index, ok := l.byAddress[token.ChainID]
	if !ok {
		index = make(map[common.Address]entity.Token)
		l.byAddress[token.ChainID] = index
	}
	if _, dup := index[addr]; dup {
		return
	}
	index[addr] = token
	l.byChain[token.ChainID] = append(l.byChain[token.ChainID], token)
}

// GetToken looks a token up by address, case-insensitively.
func (l *TokenFileLoader) GetToken(chainID entity.ChainID, address string) (entity.Token, bool) {
	if !common.IsHexAddress(address) {
		return entity.Token{}, false
	}
	token, ok := l.byAddress[chainID][common.HexToAddress(address)]
	return token, ok
}

// GetTokensByChainID returns the loaded tokens of a network in file order.
func (l *TokenFileLoader) GetTokensByChainID(chainID entity.ChainID) []entity.Token {
	tokens := l.byChain[chainID]
	out := make([]entity.Token, len(tokens))
	copy(out, tokens)
	return out
}

var _ port.TokenProvider = (*TokenFileLoader)(nil)
