package mongo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsWriteConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"write conflict code", mongo.CommandError{Code: 112, Name: "WriteConflict"}, true},
		{"write conflict name only", mongo.CommandError{Name: "WriteConflict"}, true},
		{"wrapped", fmt.Errorf("claim slots: %w", mongo.CommandError{Code: 112}), true},
		{"write exception", mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 112}}}, true},
		{"transient network error", mongo.CommandError{Code: 6, Name: "HostUnreachable", Labels: []string{"TransientTransactionError"}}, false},
		{"primary stepdown", mongo.CommandError{Code: 189, Name: "PrimarySteppedDown", Labels: []string{"TransientTransactionError"}}, false},
		{"duplicate key", mongo.CommandError{Code: 11000}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWriteConflict(tt.err))
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"labelled", mongo.CommandError{Code: 6, Labels: []string{"TransientTransactionError"}}, true},
		{"wrapped", fmt.Errorf("transaction failed: %w", mongo.CommandError{Labels: []string{"TransientTransactionError"}}), true},
		{"unlabelled write conflict", mongo.CommandError{Code: 112}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
