package state

type storedLockWallet struct {
	ID          string
	Beneficiary string
}

// RegisterLockWallet records a custodial lock wallet and the canonical
// beneficiary it resolves to.
func (m *Manager) RegisterLockWallet(walletID, beneficiary string) error {
	return m.put(recordKey(lockWalletPrefix, walletID), &storedLockWallet{
		ID:          walletID,
		Beneficiary: beneficiary,
	})
}

// LockWalletBeneficiary returns the beneficiary for a registered wallet.
func (m *Manager) LockWalletBeneficiary(walletID string) (string, bool, error) {
	stored := new(storedLockWallet)
	found, err := m.get(recordKey(lockWalletPrefix, walletID), stored)
	if err != nil || !found {
		return "", false, err
	}
	return stored.Beneficiary, true, nil
}
