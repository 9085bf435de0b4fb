package orders

import "time"

// OrderItem adalah snapshot produk saat checkout. Harga & judul disalin dari
// produk dan tidak pernah di-refetch: fakta historis, immutable.
type OrderItem struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle,omitempty"`
	Price     int64  `json:"price"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
	Category  string `json:"category,omitempty"`
}

type ShippingAddress struct {
	FullName string `json:"fullName"`
	Note     string `json:"note,omitempty"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type DeliveryFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	UserEmail       string          `json:"userEmail"`
	UserName        string          `json:"userName"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     int64           `json:"totalAmount"`
	Status          Status          `json:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	AdminNotes      string          `json:"adminNotes,omitempty"`
	DeliveryFiles   []DeliveryFile  `json:"deliveryFiles"`
	Version         int64           `json:"version"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Buyer adalah identitas pemesan yang di-snapshot ke order saat pembuatan.
type Buyer struct {
	ID    string
	Email string
	Name  string
}

type Stats struct {
	TotalOrders     int   `json:"totalOrders"`
	PendingOrders   int   `json:"pendingOrders"`
	AcceptedOrders  int   `json:"acceptedOrders"`
	CompletedOrders int   `json:"completedOrders"`
	RejectedOrders  int   `json:"rejectedOrders"`
	TotalRevenue    int64 `json:"totalRevenue"`
	UniqueCustomers int   `json:"uniqueCustomers"`
}
