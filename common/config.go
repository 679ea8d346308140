// this code is from https://github.com/pzhzqt/goostub
// there is license and copyright notice in licenses/goostub dir

package common

// print goroutine stacks on assertion failure
var EnableDebug bool = false

// back ReaderWriterLatch with go-deadlock (lock order and timeout checks)
var EnableDeadlockDetection bool = false

// use on memory virtual storage or not
var EnableOnMemStorage = true

const (
	// invalid page id
	InvalidPageID = -1
	// size of a data page in byte
	PageSize                     = 4096
	BufferPoolMaxFrameNumForTest = 64
	// bucket (block page) num of hash index when it is not specified
	DefaultNumBucketsOfHashIndex = 8
	// header page of hash index can hold this number of block page ids
	MaxNumBucketsOfHashIndex = 1020
	// depth limit of Explain output
	MaxExplainDepth = 32
	ActiveLogKindSetting = INFO | WARN | ERROR | FATAL //| DEBUG_INFO | DEBUG_INFO_DETAIL | BUFFER_INTERNAL_STATE
)

type SlotOffset uintptr // slot offset type
