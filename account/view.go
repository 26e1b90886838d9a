package account

import "encoding/hex"

// EventsView is the JSON form of an EventHandle.
type EventsView struct {
	Key   string `json:"key"`
	Count uint64 `json:"count"`
}

// View is the JSON form of a Resource handed across the boundary.
// Byte strings are lowercase hex without a prefix.
type View struct {
	Balance                       uint64     `json:"balance"`
	SequenceNumber                uint64     `json:"sequence_number"`
	AuthenticationKey             string     `json:"authentication_key"`
	SentEvents                    EventsView `json:"sent_events"`
	ReceivedEvents                EventsView `json:"received_events"`
	DelegatedWithdrawalCapability bool       `json:"delegated_withdrawal_capability"`
}

// NewView converts r to its JSON form.
func NewView(r Resource) View {
	return View{
		Balance:           r.Balance,
		SequenceNumber:    r.SequenceNumber,
		AuthenticationKey: hex.EncodeToString(r.AuthenticationKey),
		SentEvents: EventsView{
			Key:   hex.EncodeToString(r.SentEvents.Key),
			Count: r.SentEvents.Count,
		},
		ReceivedEvents: EventsView{
			Key:   hex.EncodeToString(r.ReceivedEvents.Key),
			Count: r.ReceivedEvents.Count,
		},
		DelegatedWithdrawalCapability: r.DelegatedWithdrawalCapability,
	}
}
