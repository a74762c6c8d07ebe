package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	notFound := New(ErrCodeOrderNotFound, "order not found")
	wrapped := fmt.Errorf("lookup: %w", notFound)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.False(t, IsForbidden(wrapped))

	assert.True(t, IsValidation(New(ErrCodeInvalidPhone, "bad phone")))
	assert.True(t, IsForbidden(NewForbiddenError("admin only")))
	assert.False(t, IsNotFound(stderrors.New("plain")))
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New(ErrCodeCategoryNotFound, "category not found")
	err := Wrap(stderrors.New("record not found"), ErrCodeCategoryNotFound, "category 5")

	assert.True(t, stderrors.Is(err, sentinel))
	assert.False(t, stderrors.Is(err, New(ErrCodeItemNotFound, "item not found")))
}

func TestErrorString(t *testing.T) {
	err := NewDatabaseError("create order", stderrors.New("boom"))
	assert.Equal(t, "[DATABASE_ERROR] Database operation failed: create order: boom", err.Error())
	assert.Equal(t, "create order", err.Details["operation"])
}
