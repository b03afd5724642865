package entry

// AppliedTx marks a transaction hash as applied. Its presence is what makes
// a resubmitted signed transaction fail instead of applying twice.
type AppliedTx struct {
	Account   Address `codec:"account"`
	TxType    uint16  `codec:"tx_type"`
	AppliedAt int64   `codec:"applied_at"`
}

func (a *AppliedTx) Type() Type { return TypeAppliedTx }

func (a *AppliedTx) Validate() error { return nil }
