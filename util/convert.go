package util

import (
	"encoding/binary"

	"github.com/golang/snappy"
	"github.com/jobala/bplus/storage/disk"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"
)

// page image layout: 4 byte little endian payload length, snappy block, zero padding
const PAGE_HEADER_SIZE = 4

// ToByteSlice encodes obj with msgpack, compresses it with snappy and pads the
// result to a full page.
func ToByteSlice[T any](obj T) ([]byte, error) {
	data, err := msgpack.Marshal(obj)
	if err != nil {
		return nil, errors.Wrap(err, "error encoding page")
	}

	compressed := snappy.Encode(nil, data)
	if len(compressed)+PAGE_HEADER_SIZE > disk.PAGE_SIZE {
		return nil, errors.Wrapf(ErrPageTooLarge, "payload is %d bytes", len(compressed))
	}

	res := make([]byte, disk.PAGE_SIZE)
	binary.LittleEndian.PutUint32(res, uint32(len(compressed)))
	copy(res[PAGE_HEADER_SIZE:], compressed)

	return res, nil
}

func ToStruct[T any](data []byte) (T, error) {
	var res T

	if len(data) < PAGE_HEADER_SIZE {
		return res, errors.Errorf("page is too short: %d bytes", len(data))
	}

	size := int(binary.LittleEndian.Uint32(data))
	if size == 0 {
		return res, errors.New("page is empty")
	}
	if size > len(data)-PAGE_HEADER_SIZE {
		return res, errors.Errorf("page payload length %d exceeds page", size)
	}

	decoded, err := snappy.Decode(nil, data[PAGE_HEADER_SIZE:PAGE_HEADER_SIZE+size])
	if err != nil {
		return res, errors.Wrap(err, "error decompressing page")
	}

	if err := msgpack.Unmarshal(decoded, &res); err != nil {
		return res, errors.Wrap(err, "error decoding page")
	}

	return res, nil
}
