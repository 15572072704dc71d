package parqerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dnlrv/parqstream/internal/parqerr"
)

func TestNewAndIs(t *testing.T) {
	err := parqerr.New(parqerr.MalformedFile, "bad footer at offset %d", 42)
	require.True(t, parqerr.Is(err, parqerr.MalformedFile))
	require.False(t, parqerr.Is(err, parqerr.Io))
	require.Contains(t, err.Error(), "bad footer at offset 42")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk read failed")
	err := parqerr.Wrap(parqerr.Io, cause, "reading column chunk")
	require.True(t, parqerr.Is(err, parqerr.Io))
	require.ErrorIs(t, err, cause)
}

func TestWrapNilReturnsNil(t *testing.T) {
	require.NoError(t, parqerr.Wrap(parqerr.Io, nil, "no-op"))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "consumer misuse", parqerr.ConsumerMisuse.String())
	require.Equal(t, "unknown", parqerr.Kind(99).String())
}
