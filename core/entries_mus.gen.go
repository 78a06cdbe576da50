// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	sliceIy9w2fnxGRmKpp3XFFKmuwΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var ArchiveEntryMUS = archiveEntryMUS{}

type archiveEntryMUS struct{}

func (s archiveEntryMUS) Marshal(v ArchiveEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.UserID, bs[n:])
	n += ord.String.Marshal(v.QueryText, bs[n:])
	n += ord.String.Marshal(v.ResponseText, bs[n:])
	n += sliceIy9w2fnxGRmKpp3XFFKmuwΞΞ.Marshal(v.QueryVector, bs[n:])
	n += sliceIy9w2fnxGRmKpp3XFFKmuwΞΞ.Marshal(v.ResponseVector, bs[n:])
	n += ord.String.Marshal(v.ModelVersion, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
}

func (s archiveEntryMUS) Unmarshal(bs []byte) (v ArchiveEntry, n int, err error) {
	v.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.UserID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.QueryText, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ResponseText, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.QueryVector, n1, err = sliceIy9w2fnxGRmKpp3XFFKmuwΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ResponseVector, n1, err = sliceIy9w2fnxGRmKpp3XFFKmuwΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ModelVersion, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s archiveEntryMUS) Size(v ArchiveEntry) (size int) {
	size = ord.String.Size(v.Id)
	size += ord.String.Size(v.UserID)
	size += ord.String.Size(v.QueryText)
	size += ord.String.Size(v.ResponseText)
	size += sliceIy9w2fnxGRmKpp3XFFKmuwΞΞ.Size(v.QueryVector)
	size += sliceIy9w2fnxGRmKpp3XFFKmuwΞΞ.Size(v.ResponseVector)
	size += ord.String.Size(v.ModelVersion)
	return size + raw.TimeUnixMicro.Size(v.CreatedAt)
}

func (s archiveEntryMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceIy9w2fnxGRmKpp3XFFKmuwΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceIy9w2fnxGRmKpp3XFFKmuwΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
