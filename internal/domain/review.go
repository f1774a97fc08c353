package domain

import "time"

type Review struct {
	ID        string    `json:"_id"`
	ServiceID string    `json:"serviceId"`
	UserEmail string    `json:"userEmail"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}
