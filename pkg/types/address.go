package types

import "strings"

// ShippingAddress is the delivery destination snapshotted onto an order.
// Embedded into the orders table with the ship_ column prefix.
type ShippingAddress struct {
	ReceiverName  string `gorm:"column:receiver_name;not null" json:"receiver_name"`
	ReceiverPhone string `gorm:"column:receiver_phone;not null" json:"receiver_phone"`
	Zipcode       string `gorm:"column:zipcode;not null" json:"zipcode"`
	Address1      string `gorm:"column:address1;not null" json:"address1"`
	Address2      string `gorm:"column:address2;not null;default:''" json:"address2,omitempty"`
}

// Normalized returns a copy with surrounding whitespace stripped from every
// field.
func (a ShippingAddress) Normalized() ShippingAddress {
	return ShippingAddress{
		ReceiverName:  strings.TrimSpace(a.ReceiverName),
		ReceiverPhone: strings.TrimSpace(a.ReceiverPhone),
		Zipcode:       strings.TrimSpace(a.Zipcode),
		Address1:      strings.TrimSpace(a.Address1),
		Address2:      strings.TrimSpace(a.Address2),
	}
}

// IsComplete reports whether every required field is present.
func (a ShippingAddress) IsComplete() bool {
	n := a.Normalized()
	return n.ReceiverName != "" && n.ReceiverPhone != "" && n.Zipcode != "" && n.Address1 != ""
}
