package tokenlock

// State exposes the registered lock-wallet mappings.
type State interface {
	LockWalletBeneficiary(walletID string) (string, bool, error)
}

// Resolver maps a raw account id to its canonical beneficiary. Registered
// lock wallets resolve to their underlying owner; any other id passes
// through unchanged.
type Resolver struct {
	state State
}

func NewResolver(state State) *Resolver {
	return &Resolver{state: state}
}

// Resolve unwraps the raw id if it names a registered lock wallet.
func (r *Resolver) Resolve(rawID string) (string, error) {
	beneficiary, found, err := r.state.LockWalletBeneficiary(rawID)
	if err != nil {
		return "", err
	}
	if !found {
		return rawID, nil
	}
	return beneficiary, nil
}
