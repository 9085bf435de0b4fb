package redisx

import "time"

const (
	// Sesi login dari identity provider: session:{token} -> identity JSON
	KeySession = "session:%s"

	// Keranjang per user: cart:{user_id} -> items JSON
	KeyCart = "cart:%s"

	// Cache status order: order_status:{order_id} -> {"status":"...","paymentStatus":"..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

// Channel pub/sub utk perubahan produk (live update katalog).
const ChannelProductUpdates = "products.updates"

var (
	TTLSession     = 7 * 24 * time.Hour
	TTLCart        = 30 * 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
