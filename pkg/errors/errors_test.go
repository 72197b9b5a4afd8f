// Package errors_test provides unit tests for the AppError type, factory
// functions, and error-chain helpers defined in pkg/errors/errors.go.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TestNew
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"warning not found", errors.CodeWarningNotFound, "warning 42 not found"},
		{"invalid param", errors.CodeInvalidParam, "bulletin title must not be empty"},
		{"notify failed", errors.CodeNotifyFailed, "webhook returned 500"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail, "Detail should be empty for bare New()")
			assert.Nil(t, ae.Cause, "Cause should be nil for bare New()")
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	result := errors.Wrap(nil, errors.CodeInternal, "should not matter")
	assert.Nil(t, result)
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("root DB error")
	wrapped := errors.Wrap(root, errors.CodeDatabaseError, "connection failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.CodeDatabaseError, wrapped.Code)
	assert.Equal(t, "connection failed", wrapped.Message)
	assert.Equal(t, root, wrapped.Cause)
}

func TestWrap_UnwrapReturnsCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("original")
	ae := errors.Wrap(cause, errors.CodeCacheError, "cache miss")

	unwrapped := stderrors.Unwrap(ae)
	assert.Equal(t, cause, unwrapped)
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeWarningNotFound, "not found")
	outer := errors.Wrap(inner, errors.CodeUnknown, "adding context")

	require.NotNil(t, outer)
	assert.Equal(t, errors.CodeWarningNotFound, outer.Code,
		"Wrap with CodeUnknown should inherit the inner AppError's code")
}

func TestWrap_OverridesCodeWhenExplicit(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeWarningNotFound, "not found")
	outer := errors.Wrap(inner, errors.CodeInternal, "unexpected state")

	assert.Equal(t, errors.CodeInternal, outer.Code,
		"explicit non-Unknown code must override the inner code")
}

func TestWrap_MultiLevel(t *testing.T) {
	t.Parallel()

	root := stderrors.New("dial tcp: connection refused")
	level1 := errors.Wrap(root, errors.CodeDatabaseError, "postgres unreachable")
	level2 := errors.Wrap(level1, errors.CodeInternal, "failed to load warning")

	// Unwrap chain: level2 → level1 → root
	assert.Equal(t, level1, stderrors.Unwrap(level2))
	assert.Equal(t, root, stderrors.Unwrap(level1))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestError_Method
// ─────────────────────────────────────────────────────────────────────────────

func TestError_FormatWithoutDetail(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeWarningNotFound, "warning not found")
	s := ae.Error()

	assert.Contains(t, s, "WRN_001")
	assert.Contains(t, s, "warning not found")
}

func TestError_FormatWithDetail(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeBulletinInvalid, "bulletin payload invalid").
		WithDetail("bureau=天津海事局")
	s := ae.Error()

	assert.Contains(t, s, "WRN_004")
	assert.Contains(t, s, "bulletin payload invalid")
	assert.Contains(t, s, "bureau=天津海事局")
}

func TestError_ImplementsErrorInterface(t *testing.T) {
	t.Parallel()

	var err error = errors.New(errors.CodeInternal, "boom")
	assert.NotEmpty(t, err.Error())
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWithDetail / TestWithCause
// ─────────────────────────────────────────────────────────────────────────────

func TestWithDetail_SetsDetailOnCopy(t *testing.T) {
	t.Parallel()

	original := errors.New(errors.CodeNotFound, "resource missing")
	detailed := original.WithDetail("id=42")

	// Original must be unchanged (shallow copy semantics).
	assert.Empty(t, original.Detail, "WithDetail must not mutate the original")
	assert.Equal(t, "id=42", detailed.Detail)
	assert.Equal(t, original.Code, detailed.Code)
	assert.Equal(t, original.Message, detailed.Message)
}

func TestWithDetail_NilReceiverReturnsNil(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	result := ae.WithDetail("x")
	assert.Nil(t, result)
}

func TestWithCause_AttachesCause(t *testing.T) {
	t.Parallel()

	root := stderrors.New("driver: bad connection")
	ae := errors.New(errors.CodeDatabaseError, "database error").WithCause(root)

	assert.Equal(t, root, ae.Cause)
	assert.Equal(t, root, stderrors.Unwrap(ae))
}

func TestWithCause_DoesNotMutateOriginal(t *testing.T) {
	t.Parallel()

	original := errors.New(errors.CodeInternal, "failure")
	cause := stderrors.New("cause")
	withCause := original.WithCause(cause)

	assert.Nil(t, original.Cause, "WithCause must not mutate the original")
	assert.Equal(t, cause, withCause.Cause)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestIsCode / TestGetCode / TestIsNotFound
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_DirectMatch(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeWarningNotFound, "not found")
	assert.True(t, errors.IsCode(ae, errors.CodeWarningNotFound))
	assert.False(t, errors.IsCode(ae, errors.CodeInternal))
}

func TestIsCode_NestedChain(t *testing.T) {
	t.Parallel()

	root := errors.New(errors.CodeDatabaseError, "db down")
	wrapped := errors.Wrap(root, errors.CodeInternal, "service error")

	// The outer code is CodeInternal but the chain contains CodeDatabaseError.
	assert.True(t, errors.IsCode(wrapped, errors.CodeDatabaseError),
		"IsCode must find the code anywhere in the error chain")
	assert.True(t, errors.IsCode(wrapped, errors.CodeInternal))
}

func TestIsCode_NilErrorReturnsFalse(t *testing.T) {
	t.Parallel()

	assert.False(t, errors.IsCode(nil, errors.CodeInternal))
}

func TestIsCode_StdlibErrorReturnsFalse(t *testing.T) {
	t.Parallel()

	err := stderrors.New("plain error")
	assert.False(t, errors.IsCode(err, errors.CodeInternal))
}

func TestGetCode_DirectAppError(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeVesselNotFound, "vessel missing")
	assert.Equal(t, errors.CodeVesselNotFound, errors.GetCode(ae))
}

func TestGetCode_NilReturnsCodeOK(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
}

func TestGetCode_StdlibErrorReturnsCodeUnknown(t *testing.T) {
	t.Parallel()

	err := stderrors.New("some stdlib error")
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(err))
}

func TestIsNotFound_MatchesDomainVariants(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsNotFound(errors.NotFound("x")))
	assert.True(t, errors.IsNotFound(errors.New(errors.CodeWarningNotFound, "x")))
	assert.True(t, errors.IsNotFound(errors.New(errors.CodeVesselNotFound, "x")))
	assert.False(t, errors.IsNotFound(errors.Internal("x")))
	assert.False(t, errors.IsNotFound(nil))
}

func TestIsNotFound_WrappedChain(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.CodeWarningNotFound, "missing")
	outer := fmt.Errorf("handler: %w", inner)
	assert.True(t, errors.IsNotFound(outer))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestConvenienceFactories
// ─────────────────────────────────────────────────────────────────────────────

func TestConvenienceFactories_ReturnCorrectCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		err      *errors.AppError
		wantCode errors.ErrorCode
	}{
		{"NotFound", errors.NotFound("not found"), errors.CodeNotFound},
		{"InvalidParam", errors.InvalidParam("bad input"), errors.CodeInvalidParam},
		{"Internal", errors.Internal("server error"), errors.CodeInternal},
		{"Conflict", errors.Conflict("duplicate resource"), errors.CodeConflict},
		{"Unavailable", errors.Unavailable("webhook unreachable"), errors.CodeServiceUnavailable},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.NotNil(t, tc.err)
			assert.Equal(t, tc.wantCode, tc.err.Code)
			assert.NotEmpty(t, tc.err.Message)
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// TestStdlibCompatibility
// ─────────────────────────────────────────────────────────────────────────────

func TestStdlib_ErrorsIs_DirectComparison(t *testing.T) {
	t.Parallel()

	sentinel := errors.New(errors.CodeNotifyFailed, "delivery failed")
	wrapped := fmt.Errorf("notifier: %w", sentinel)

	// errors.Is traverses the chain and finds the *AppError pointer.
	assert.True(t, stderrors.Is(wrapped, sentinel))
}

func TestStdlib_ErrorsAs_ExtractsAppError(t *testing.T) {
	t.Parallel()

	original := errors.New(errors.CodeMessageQueueError, "kafka unreachable")
	wrapped := fmt.Errorf("pipeline: %w", original)

	var ae *errors.AppError
	require.True(t, stderrors.As(wrapped, &ae),
		"errors.As must be able to extract *AppError from a wrapped chain")
	assert.Equal(t, errors.CodeMessageQueueError, ae.Code)
	assert.Equal(t, "kafka unreachable", ae.Message)
}

func TestFluentChain_CombinedUsage(t *testing.T) {
	t.Parallel()

	root := stderrors.New("pgx: connection reset")
	ae := errors.New(errors.CodeDatabaseError, "warning upsert failed").
		WithDetail("bureau=Tianjin MSA, source=CN_MSA").
		WithCause(root)

	assert.Equal(t, errors.CodeDatabaseError, ae.Code)
	assert.Contains(t, ae.Detail, "CN_MSA")
	assert.Equal(t, root, ae.Cause)

	s := ae.Error()
	assert.Contains(t, s, "warning upsert failed")
	assert.Contains(t, s, "CN_MSA")

	// Standard library chain traversal must find the root.
	assert.True(t, stderrors.Is(ae, root))
}
