package pgrepo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fsdevblog/groph-orders/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertErr(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "no rows", err: pgx.ErrNoRows, wantErr: domain.ErrRecordNotFound},
		{name: "wrapped no rows", err: fmt.Errorf("scan: %w", pgx.ErrNoRows), wantErr: domain.ErrRecordNotFound},
		{
			name:    "unique violation",
			err:     &pgconn.PgError{Code: uniqueViolationCode, Message: "duplicate key value"},
			wantErr: domain.ErrDuplicateKey,
		},
		{
			name:    "other pg error",
			err:     &pgconn.PgError{Code: "23514", Message: "check constraint"},
			wantErr: domain.ErrUnknown,
		},
		{name: "plain error", err: errors.New("connection reset"), wantErr: domain.ErrUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := convertErr(tc.err, "finding user %s", "bob")
			require.ErrorIs(t, err, tc.wantErr)
			assert.Contains(t, err.Error(), "[repository/finding user bob]")
		})
	}

	assert.NoError(t, convertErr(nil, "noop"))
}
