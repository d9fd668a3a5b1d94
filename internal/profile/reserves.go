package profile

import (
	"fmt"
	"sync"
	"time"

	"github.com/ankitlade12/SafePassage/internal/idgen"
)

// Exit funds are presented as held in a custodial vault on Base. The
// chain data is static demo content; only the attestation rotates.
const (
	vaultAddress = "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"
	chainName    = "Base"
	chainID      = 8453
)

// ProofOfReserves is a simulated on-chain attestation that the exit
// fund is backed. Refresh rotates the attestation transaction.
type ProofOfReserves struct {
	mu           sync.Mutex
	txHash       string
	lastVerified time.Time
}

// NewProofOfReserves creates an attestation verified as of now.
func NewProofOfReserves() *ProofOfReserves {
	return &ProofOfReserves{
		txHash:       "0x" + idgen.Hex(32),
		lastVerified: time.Now().UTC(),
	}
}

// Refresh simulates re-verifying the vault balance on chain.
func (p *ProofOfReserves) Refresh() {
	p.mu.Lock()
	p.txHash = "0x" + idgen.Hex(32)
	p.lastVerified = time.Now().UTC()
	p.mu.Unlock()
}

// Verification is the display payload for the reserves widget.
type Verification struct {
	VaultAddress string `json:"vaultAddress"`
	ShortAddress string `json:"shortAddress"`
	Chain        string `json:"chain"`
	ChainID      int    `json:"chainId"`
	Balance      string `json:"balance"`
	LastVerified string `json:"lastVerified"`
	TxHash       string `json:"txHash"`
	ShortTx      string `json:"shortTx"`
	ExplorerURL  string `json:"explorerUrl"`
	Verified     bool   `json:"verified"`
}

// Verification renders the attestation for the given fund balance.
func (p *ProofOfReserves) Verification(amount float64, currencyCode string) Verification {
	p.mu.Lock()
	txHash := p.txHash
	verified := p.lastVerified
	p.mu.Unlock()

	return Verification{
		VaultAddress: vaultAddress,
		ShortAddress: vaultAddress[:6] + "..." + vaultAddress[len(vaultAddress)-4:],
		Chain:        chainName,
		ChainID:      chainID,
		Balance:      fmt.Sprintf("%.2f %s", amount, currencyCode),
		LastVerified: verified.Format(time.RFC3339),
		TxHash:       txHash,
		ShortTx:      txHash[:10] + "..." + txHash[len(txHash)-6:],
		ExplorerURL:  "https://basescan.org/address/" + vaultAddress,
		Verified:     true,
	}
}
