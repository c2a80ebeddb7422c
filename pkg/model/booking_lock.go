package model

import "time"

// BookingLock is an advisory lock document serializing the conflict check
// and write against a single property's timeline. The unique _id insert is
// the acquisition; a TTL index on expires_at reaps locks abandoned by a
// crashed request.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
