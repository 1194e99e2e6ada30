package domain_test

import (
	"testing"

	"chat-relay/internal/domain"
)

func TestDestinationValid(t *testing.T) {
	tests := []struct {
		name string
		dest domain.Destination
		want bool
	}{
		{"to user", domain.ToUser("u1"), true},
		{"to group", domain.ToGroup("g1"), true},
		{"both set", domain.Destination{UserID: "u1", GroupID: "g1"}, false},
		{"neither set", domain.Destination{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dest.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
