package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type remittancePayload struct {
	Currency   string   `json:"currency" binding:"required,currency"`
	Recipients []string `json:"recipients" binding:"required,min=1,dive,email"`
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	t.Run("ValidStruct", func(t *testing.T) {
		payload := remittancePayload{Currency: "IDR", Recipients: []string{"ops@example.com"}}
		require.NoError(t, binding.Validator.ValidateStruct(&payload))
	})

	t.Run("LowercaseCurrencyRejected", func(t *testing.T) {
		payload := remittancePayload{Currency: "idr", Recipients: []string{"ops@example.com"}}
		err := binding.Validator.ValidateStruct(&payload)
		require.Error(t, err)
		assert.Contains(t, ValidationMessage(err), "three-letter currency code")
	})

	t.Run("MessageUsesJSONFieldNames", func(t *testing.T) {
		payload := remittancePayload{Currency: "USD"}
		err := binding.Validator.ValidateStruct(&payload)
		require.Error(t, err)
		msg := ValidationMessage(err)
		assert.Contains(t, msg, "recipients")
		assert.NotContains(t, msg, "Recipients")
	})
}

func TestValidationMessagePassthrough(t *testing.T) {
	err := assert.AnError
	assert.Equal(t, err.Error(), ValidationMessage(err))
}
