package midtrans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettled(t *testing.T) {
	cases := []struct {
		name   string
		status StatusResponse
		want   bool
	}{
		{"settlement", StatusResponse{TransactionStatus: StatusSettlement}, true},
		{"capture accepted", StatusResponse{TransactionStatus: StatusCapture, FraudStatus: "accept"}, true},
		{"capture without fraud check", StatusResponse{TransactionStatus: StatusCapture}, true},
		{"capture challenged", StatusResponse{TransactionStatus: StatusCapture, FraudStatus: "challenge"}, false},
		{"pending", StatusResponse{TransactionStatus: StatusPending}, false},
		{"expire", StatusResponse{TransactionStatus: StatusExpire}, false},
		{"cancel", StatusResponse{TransactionStatus: StatusCancel}, false},
		{"deny", StatusResponse{TransactionStatus: StatusDeny}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.status.Settled())
		})
	}
}
