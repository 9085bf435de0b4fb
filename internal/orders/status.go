package orders

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// completed & rejected bersifat terminal: tidak ada transisi keluar.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusAccepted: true, StatusRejected: true},
	StatusAccepted:  {StatusCompleted: true},
	StatusCompleted: {},
	StatusRejected:  {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Terminal() bool {
	return len(validNext[s]) == 0
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type PaymentMethod string

const (
	MethodNone PaymentMethod = ""
	MethodCash PaymentMethod = "cash"
	MethodQRIS PaymentMethod = "qris"
)

func (m PaymentMethod) Valid() bool {
	return m == MethodCash || m == MethodQRIS
}

// Cash dipercaya di point of sale, langsung paid. QRIS nunggu konfirmasi admin
// karena bukti transfernya di luar sistem (tidak ada webhook gateway).
func (m PaymentMethod) AutoPaid() bool {
	return m == MethodCash
}
