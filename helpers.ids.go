package main

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/gofrs/uuid"
)

var _ UIDHandler = (*IDsHandler)(nil) // ensure IDsHandler implements UIDHandler.

// UIDHandler is an interface for generating and checking identifiers.
type UIDHandler interface {
	Generate() string
	IsValid(id string) bool
	RequestID() string
}

// IDsHandler implements the UIDHandler interface.
type IDsHandler struct{}

// NewIDsHandler returns a ready to use IDsHandler.
func NewIDsHandler() *IDsHandler {
	return &IDsHandler{}
}

// Generate provides a 24 hex characters book identifier built from a
// 4-byte big-endian unix timestamp followed by 8 random bytes.
func (idh *IDsHandler) Generate() string {
	var raw [12]byte
	binary.BigEndian.PutUint32(raw[:4], uint32(time.Now().Unix()))
	_, _ = rand.Read(raw[4:])
	return hex.EncodeToString(raw[:])
}

// IsValid checks if a given string is a well-formed book identifier.
// Lookups must never hit the storage for identifiers failing this check.
func (idh *IDsHandler) IsValid(id string) bool {
	if len(id) != 24 {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}

// RequestID provides a random unique identifier to tag an incoming request.
func (idh *IDsHandler) RequestID() string {
	id, _ := uuid.NewV4()
	return RequestIDPrefix + ":" + id.String()
}
