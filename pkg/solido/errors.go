package solido

import "errors"

// program errors
var (
	ErrInvalidInstructionData         = errors.New("ErrInvalidInstructionData")
	ErrInvalidAccountInfo             = errors.New("ErrInvalidAccountInfo")
	ErrTooManyAccountKeys             = errors.New("ErrTooManyAccountKeys")
	ErrNotEnoughAccountKeys           = errors.New("ErrNotEnoughAccountKeys")
	ErrInvalidArgument                = errors.New("ErrInvalidArgument")
	ErrAlreadyInUse                   = errors.New("ErrAlreadyInUse")
	ErrInvalidStakePool               = errors.New("ErrInvalidStakePool")
	ErrInvalidTokenMinter             = errors.New("ErrInvalidTokenMinter")
	ErrInvalidOwner                   = errors.New("ErrInvalidOwner")
	ErrInvalidManager                 = errors.New("ErrInvalidManager")
	ErrInvalidFeeAccount              = errors.New("ErrInvalidFeeAccount")
	ErrUnexpectedValidatorAccountSize = errors.New("ErrUnexpectedValidatorAccountSize")
	ErrCalculationFailure             = errors.New("ErrCalculationFailure")
	ErrWrongStakeState                = errors.New("ErrWrongStakeState")
	ErrInvalidStaker                  = errors.New("ErrInvalidStaker")
	ErrInvalidReserveAuthority        = errors.New("ErrInvalidReserveAuthority")
	ErrInvalidAmount                  = errors.New("ErrInvalidAmount")
	ErrAmountExceedsReserve           = errors.New("ErrAmountExceedsReserve")
	ErrInvalidPoolToken               = errors.New("ErrInvalidPoolToken")
	ErrInvalidMaintainer              = errors.New("ErrInvalidMaintainer")
	ErrInvalidTokenProgram            = errors.New("ErrInvalidTokenProgram")
	ErrNotImplemented                 = errors.New("ErrNotImplemented")
)

// program errors - numerical error codes surfaced to the host
const (
	ErrCodeInvalidInstructionData = iota
	ErrCodeInvalidAccountInfo
	ErrCodeTooManyAccountKeys
	ErrCodeNotEnoughAccountKeys
	ErrCodeInvalidArgument
	ErrCodeAlreadyInUse
	ErrCodeInvalidStakePool
	ErrCodeInvalidTokenMinter
	ErrCodeInvalidOwner
	ErrCodeInvalidManager
	ErrCodeInvalidFeeAccount
	ErrCodeUnexpectedValidatorAccountSize
	ErrCodeCalculationFailure
	ErrCodeWrongStakeState
	ErrCodeInvalidStaker
	ErrCodeInvalidReserveAuthority
	ErrCodeInvalidAmount
	ErrCodeAmountExceedsReserve
	ErrCodeInvalidPoolToken
	ErrCodeInvalidMaintainer
	ErrCodeInvalidTokenProgram
	ErrCodeNotImplemented
)

var errToCode = map[error]int{
	ErrInvalidInstructionData:         ErrCodeInvalidInstructionData,
	ErrInvalidAccountInfo:             ErrCodeInvalidAccountInfo,
	ErrTooManyAccountKeys:             ErrCodeTooManyAccountKeys,
	ErrNotEnoughAccountKeys:           ErrCodeNotEnoughAccountKeys,
	ErrInvalidArgument:                ErrCodeInvalidArgument,
	ErrAlreadyInUse:                   ErrCodeAlreadyInUse,
	ErrInvalidStakePool:               ErrCodeInvalidStakePool,
	ErrInvalidTokenMinter:             ErrCodeInvalidTokenMinter,
	ErrInvalidOwner:                   ErrCodeInvalidOwner,
	ErrInvalidManager:                 ErrCodeInvalidManager,
	ErrInvalidFeeAccount:              ErrCodeInvalidFeeAccount,
	ErrUnexpectedValidatorAccountSize: ErrCodeUnexpectedValidatorAccountSize,
	ErrCalculationFailure:             ErrCodeCalculationFailure,
	ErrWrongStakeState:                ErrCodeWrongStakeState,
	ErrInvalidStaker:                  ErrCodeInvalidStaker,
	ErrInvalidReserveAuthority:        ErrCodeInvalidReserveAuthority,
	ErrInvalidAmount:                  ErrCodeInvalidAmount,
	ErrAmountExceedsReserve:           ErrCodeAmountExceedsReserve,
	ErrInvalidPoolToken:               ErrCodeInvalidPoolToken,
	ErrInvalidMaintainer:              ErrCodeInvalidMaintainer,
	ErrInvalidTokenProgram:            ErrCodeInvalidTokenProgram,
	ErrNotImplemented:                 ErrCodeNotImplemented,
}

// TranslateErrToCode maps a program error to the numeric custom-error code
// surfaced to the host. Errors that are not program errors (CPI failures
// propagated verbatim) map to -1.
func TranslateErrToCode(err error) int {
	code, ok := errToCode[err]
	if !ok {
		return -1
	}
	return code
}
