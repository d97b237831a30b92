package errors

// Generic root errors.
var (
	// ErrUnauthorized is used whenever a request without sufficient
	// authorization is handled.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned whenever an event is invalid and cannot be
	// handled.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned whenever a message is invalid and cannot
	// be used (ie. persisted).
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when there is a record already that has the same
	// unique key/index used
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned when application reaches a code path which should not
	// ever be reached if the code was written as expected by the framework
	ErrHuman = Register(7, "coding error")

	// ErrEmpty is returned when a value fails a not empty assertion
	ErrEmpty = Register(9, "value is empty")

	// ErrTimeout is returned when an operation did not complete in time.
	ErrTimeout = Register(12, "timeout")

	// ErrState is returned when an object is in invalid state
	ErrState = Register(10, "invalid state")

	// ErrType is returned whenever the type is not what was expected
	ErrType = Register(11, "invalid type")

	// ErrAmount stands for invalid amount of whatever
	ErrAmount = Register(13, "invalid amount")

	// ErrInput stands for general input problems indication
	ErrInput = Register(14, "invalid input")

	// ErrNetwork is returned by clients when a node cannot be reached.
	ErrNetwork = Register(15, "network")

	// ErrOverflow s returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrIteratorDone is returned by iterators when there are no more
	// values to read.
	ErrIteratorDone = Register(17, "iterator done")

	// ErrDatabase is returned when a store operation fails.
	ErrDatabase = Register(18, "database")

	// ErrSchema is returned when a configuration or model cannot be
	// loaded because it was never set.
	ErrSchema = Register(19, "schema")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info
	ErrPanic = Register(111222, "panic")
)

// Validation errors of the vote accounting engine.
var (
	// ErrSignature is returned when a delegated vote signature does not
	// recover to the voter.
	ErrSignature = Register(100, "invalid signature")

	// ErrNonceUsed is returned when a (voter, nonce) pair was already
	// consumed.
	ErrNonceUsed = Register(101, "nonce already used")

	// ErrPointsDistribution is returned when points exceed the maximum or
	// sum up to zero.
	ErrPointsDistribution = Register(102, "invalid points distribution")

	// ErrRecipientCount is returned when the number of points does not
	// match the number of active recipients.
	ErrRecipientCount = Register(103, "incorrect number of recipients")

	// ErrArrayLengthMismatch is returned when parallel arrays of a batch
	// differ in length.
	ErrArrayLengthMismatch = Register(104, "array length mismatch")

	// ErrBatchTooLarge is returned when a batch exceeds the maximum size.
	ErrBatchTooLarge = Register(105, "batch too large")

	// ErrNoStrategies is returned when no voting power strategy is
	// configured.
	ErrNoStrategies = Register(106, "no strategies provided")
)

// Timing, resource and coordination errors of the distribution cycle.
var (
	// ErrCycleTransition is returned when a cycle cannot be advanced yet.
	ErrCycleTransition = Register(120, "invalid cycle transition")

	// ErrNotResolved is returned when distribution conditions are not met
	// at execution time.
	ErrNotResolved = Register(121, "distribution not resolved")

	// ErrInsufficientSurplus is returned when more yield is requested than
	// was accrued.
	ErrInsufficientSurplus = Register(122, "insufficient surplus")

	// ErrEmptyRecipients is returned when there is nobody to distribute
	// to.
	ErrEmptyRecipients = Register(123, "empty recipient set")

	// ErrLocked is returned when the execution lock is held by another
	// agent.
	ErrLocked = Register(124, "execution locked")

	// ErrInsufficientFunds is returned when an account balance cannot
	// cover a transfer.
	ErrInsufficientFunds = Register(125, "insufficient funds")
)
