package apierrors

// Business error codes
const (
	// Catalog Errors
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"      // No product in the requested slot
	ErrCodeDuplicateProductName = "DUPLICATE_PRODUCT_NAME" // Name already used by another slot (case-insensitive)

	// Coin Ledger Errors
	ErrCodeUnacceptedDenomination = "UNACCEPTED_DENOMINATION" // Coin is not part of the accepted set
	ErrCodeInvalidMoneyAmount     = "INVALID_MONEY_AMOUNT"    // Value has more than two fractional digits or is not positive
)
