package exception_test

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativedbg/nativedbg/exception"
	"github.com/nativedbg/nativedbg/ntnative"
)

const sizeofRecord = int(unsafe.Sizeof(ntnative.ExceptionRecord{}))

// recordBytes views record's in-memory representation as a byte slice,
// standing in for what a real ReadProcessMemory would return.
func recordBytes(record *ntnative.ExceptionRecord) []byte {
	return (*[1 << 20]byte)(unsafe.Pointer(record))[:sizeofRecord:sizeofRecord]
}

// fakeReader serves fixed byte chunks at fixed addresses, simulating a
// remote process's memory for a chained EXCEPTION_RECORD.
type fakeReader struct {
	chunks map[uint32][]byte
}

func (f *fakeReader) Read(address uint32, size int) ([]byte, error) {
	buf, ok := f.chunks[address]
	if !ok {
		return nil, fmt.Errorf("fakeReader: no data at 0x%08x", address)
	}
	if len(buf) < size {
		return nil, fmt.Errorf("fakeReader: short chunk at 0x%08x", address)
	}
	return buf[:size], nil
}

func TestTranslateSimpleRecord(t *testing.T) {
	record := ntnative.ExceptionRecord{
		ExceptionCode:    0x80000003, // breakpoint
		ExceptionFlags:   0,
		ExceptionAddress: 0x00401000,
		NumberParameters: 1,
	}
	record.ExceptionInformation[0] = 42

	info, err := exception.Translate(record, &fakeReader{})
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, uint32(0x80000003), info.Code)
	assert.Equal(t, uint32(0x00401000), info.Address)
	assert.False(t, info.Noncontinuable)
	assert.Equal(t, []uint32{42}, info.Parameters)
	assert.Nil(t, info.Nested)
	assert.Nil(t, info.AccessViolation)
}

func TestTranslateAccessViolationSpecializes(t *testing.T) {
	record := ntnative.ExceptionRecord{
		ExceptionCode:    uint32(ntnative.StatusAccessViolation),
		ExceptionFlags:   1,
		ExceptionAddress: 0x10000000,
		NumberParameters: 2,
	}
	record.ExceptionInformation[0] = 1 // write
	record.ExceptionInformation[1] = 0x20000000

	info, err := exception.Translate(record, &fakeReader{})
	require.NoError(t, err)
	require.NotNil(t, info.AccessViolation)

	assert.True(t, info.Noncontinuable)
	assert.Equal(t, "write", info.AccessViolation.AccessType)
	assert.Equal(t, uint32(0x20000000), info.AccessViolation.DataAddress)
}

func TestTranslateExecuteAccessViolation(t *testing.T) {
	record := ntnative.ExceptionRecord{
		ExceptionCode:    uint32(ntnative.StatusAccessViolation),
		NumberParameters: 2,
	}
	record.ExceptionInformation[0] = 8 // DEP/execute
	record.ExceptionInformation[1] = 0x401000

	info, err := exception.Translate(record, &fakeReader{})
	require.NoError(t, err)
	require.NotNil(t, info.AccessViolation)
	assert.Equal(t, "execute", info.AccessViolation.AccessType)
}

func TestTranslateChainedRecord(t *testing.T) {
	outer := ntnative.ExceptionRecord{
		ExceptionCode:       0x0EEDFACE,
		ExceptionAddress:    0x400000,
		ExceptionRecordPtr:  0x500000,
	}

	inner := ntnative.ExceptionRecord{
		ExceptionCode:    0xC0000005,
		ExceptionAddress: 0x401000,
		NumberParameters: 2,
	}
	inner.ExceptionInformation[0] = 0
	inner.ExceptionInformation[1] = 0x600000

	innerBytes := recordBytes(&inner)

	info, err := exception.Translate(outer, &fakeReader{
		chunks: map[uint32][]byte{0x500000: innerBytes},
	})
	require.NoError(t, err)
	require.NotNil(t, info.Nested)

	// %# dump is useful in CI logs when this fails; keep the call so a
	// future mismatch is easy to diff.
	t.Log(pretty.Sprint(info))

	assert.Equal(t, uint32(0xC0000005), info.Nested.Code)
	assert.Equal(t, uint32(0x401000), info.Nested.Address)
	require.NotNil(t, info.Nested.AccessViolation)
	assert.Equal(t, "read", info.Nested.AccessViolation.AccessType)
}
