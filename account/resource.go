package account

import (
	"errors"
	"fmt"
)

// EventHandle is an event stream of an account: the key identifying the
// stream and the number of events emitted so far.
type EventHandle struct {
	Count uint64
	Key   []byte
}

// Resource is the account resource stored in an account-state blob.
// Field order is serialization order.
type Resource struct {
	AuthenticationKey             []byte
	Balance                       uint64
	DelegatedWithdrawalCapability bool
	ReceivedEvents                EventHandle
	SentEvents                    EventHandle
	SequenceNumber                uint64
}

// DefaultResource is the resource of an account that has no state yet.
func DefaultResource() Resource {
	return Resource{}
}

// legacyResource is the layout that predates event keys.
type legacyResource struct {
	AuthenticationKey             []byte
	Balance                       uint64
	DelegatedWithdrawalCapability bool
	ReceivedEventsCount           uint64
	SentEventsCount               uint64
	SequenceNumber                uint64
}

// Marshal serializes r in the current layout. Fields are written in
// alphabetical order of their on-chain names.
func (r Resource) Marshal() []byte {
	return marshal(r)
}

// MarshalLegacy serializes r in the layout that predates event keys.
// Event keys are dropped.
func (r Resource) MarshalLegacy() []byte {
	return marshal(legacyResource{
		AuthenticationKey:             r.AuthenticationKey,
		Balance:                       r.Balance,
		DelegatedWithdrawalCapability: r.DelegatedWithdrawalCapability,
		ReceivedEventsCount:           r.ReceivedEvents.Count,
		SentEventsCount:               r.SentEvents.Count,
		SequenceNumber:                r.SequenceNumber,
	})
}

// DecodeResource decodes a serialized account resource. The current
// layout is tried first, then the legacy layout; either must consume the
// value exactly.
func DecodeResource(value []byte) (Resource, error) {
	var current Resource
	err := unmarshalExact(value, &current, "account resource")
	if err == nil {
		return current, nil
	}
	var legacy legacyResource
	legacyErr := unmarshalExact(value, &legacy, "legacy account resource")
	if legacyErr == nil {
		return Resource{
			AuthenticationKey:             legacy.AuthenticationKey,
			Balance:                       legacy.Balance,
			DelegatedWithdrawalCapability: legacy.DelegatedWithdrawalCapability,
			ReceivedEvents:                EventHandle{Count: legacy.ReceivedEventsCount},
			SentEvents:                    EventHandle{Count: legacy.SentEventsCount},
			SequenceNumber:                legacy.SequenceNumber,
		}, nil
	}
	return Resource{}, fmt.Errorf("account resource: %w", errors.Join(err, legacyErr))
}
