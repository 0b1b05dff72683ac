package domain

// Ledger is the root entity holding the process-wide admin identity. The
// admin is the only identity allowed to create markets and to hand the role
// over.
type Ledger struct {
	Admin string
}

// NewLedger returns a ledger owned by the given admin identity.
func NewLedger(admin string) (*Ledger, error) {
	if admin == "" {
		return nil, ErrLedgerInvalidAdmin
	}
	return &Ledger{Admin: admin}, nil
}

// IsAdmin returns whether the given identity is the current admin.
func (l *Ledger) IsAdmin(identity string) bool {
	return identity == l.Admin
}

// TransferAdmin hands the admin role over to newAdmin. The replacement is
// unconditional once the caller is authorized.
func (l *Ledger) TransferAdmin(caller, newAdmin string) error {
	if !l.IsAdmin(caller) {
		return ErrUnauthorized
	}

	l.Admin = newAdmin
	return nil
}
