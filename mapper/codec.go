package mapper

import (
	"bufio"
	"encoding/binary"
	"io"
	"sort"
	"strings"

	"github.com/axonforge/hdkernel/reflex"
	"github.com/axonforge/hdkernel/tensor"
)

// Document is the full contents of a bcmap file: a symbol table plus a
// reflex table, both at a single shared dimension.
type Document struct {
	Version  uint32
	Dim      int
	Symbols  map[string]tensor.Tensor
	Reflexes []reflex.Entry
}

// Save writes doc in the binary mapper format. Symbol
// tokens are written in sorted order so Save is deterministic.
func Save(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(Magic); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, doc.Version); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(doc.Dim)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(doc.Symbols))); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(doc.Reflexes))); err != nil {
		return err
	}

	tokens := make([]string, 0, len(doc.Symbols))
	for tok := range doc.Symbols {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	for _, tok := range tokens {
		if err := writeString(bw, tok); err != nil {
			return err
		}
		if err := writeVector(bw, doc.Symbols[tok]); err != nil {
			return err
		}
	}

	for _, e := range doc.Reflexes {
		if err := writeString(bw, e.ReflexID); err != nil {
			return err
		}
		if doc.Version >= Version3 {
			flags := uint32(0)
			if e.HasVector {
				flags |= flagHasVector
			}
			if e.HasSymbolID {
				flags |= flagHasSymbolID
			}
			if err := binary.Write(bw, binary.LittleEndian, flags); err != nil {
				return err
			}
			if e.HasVector {
				if err := writeVector(bw, e.Vector); err != nil {
					return err
				}
			}
			if e.HasSymbolID {
				if err := binary.Write(bw, binary.LittleEndian, uint32(e.SymbolID)); err != nil {
					return err
				}
			}
		} else {
			if err := writeVector(bw, e.Vector); err != nil {
				return err
			}
		}

		keys := make([]string, 0, len(e.Meta))
		for k := range e.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(keys))); err != nil {
			return err
		}
		for _, k := range keys {
			if err := writeString(bw, k); err != nil {
				return err
			}
			if err := writeString(bw, e.Meta[k]); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func writeVector(w io.Writer, t tensor.Tensor) error {
	for _, x := range t.Data() {
		if err := binary.Write(w, binary.LittleEndian, x); err != nil {
			return err
		}
	}
	return nil
}

// Load reads a bcmap file. requestedDim is used only when the input is
// completely empty, yielding empty stores at the requested dimension.
// Tokens are re-normalized (trim + lowercase) and every vector is
// L2-normalized on load; a reflex missing the "stability" metadata key
// defaults it to "0".
func Load(r io.Reader, requestedDim int) (Document, error) {
	br := bufio.NewReader(r)

	if _, err := br.Peek(1); err == io.EOF {
		return Document{Dim: requestedDim, Symbols: map[string]tensor.Tensor{}}, nil
	}

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return Document{}, ErrReadFailed
	}
	if string(magic) != Magic {
		return Document{}, ErrInvalidMagic
	}

	var version, dim32 uint32
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return Document{}, ErrReadFailed
	}
	if version != Version2 && version != Version3 {
		return Document{}, ErrVersionUnsupported
	}
	if err := binary.Read(br, binary.LittleEndian, &dim32); err != nil {
		return Document{}, ErrReadFailed
	}
	if dim32 == 0 {
		return Document{}, ErrInvalidDim
	}
	dim := int(dim32)

	var symbolCount, reflexCount uint64
	if err := binary.Read(br, binary.LittleEndian, &symbolCount); err != nil {
		return Document{}, ErrReadFailed
	}
	if err := binary.Read(br, binary.LittleEndian, &reflexCount); err != nil {
		return Document{}, ErrReadFailed
	}
	if symbolCount > MaxCount || reflexCount > MaxCount {
		return Document{}, ErrCountTooLarge
	}

	symbols := make(map[string]tensor.Tensor, symbolCount)
	for i := uint64(0); i < symbolCount; i++ {
		token, err := readString(br)
		if err != nil {
			return Document{}, err
		}
		vec, err := readVector(br, dim)
		if err != nil {
			return Document{}, err
		}
		symbols[normalizeToken(token)] = tensor.L2Normalize(vec)
	}

	reflexes := make([]reflex.Entry, 0, reflexCount)
	for i := uint64(0); i < reflexCount; i++ {
		id, err := readString(br)
		if err != nil {
			return Document{}, err
		}

		entry := reflex.Entry{ReflexID: normalizeToken(id), Meta: map[string]string{}}

		if version >= Version3 {
			var flags uint32
			if err := binary.Read(br, binary.LittleEndian, &flags); err != nil {
				return Document{}, ErrReadFailed
			}
			if flags&flagHasVector != 0 {
				vec, err := readVector(br, dim)
				if err != nil {
					return Document{}, err
				}
				entry.Vector = tensor.L2Normalize(vec)
				entry.HasVector = true
			}
			if flags&flagHasSymbolID != 0 {
				var symbolID uint32
				if err := binary.Read(br, binary.LittleEndian, &symbolID); err != nil {
					return Document{}, ErrReadFailed
				}
				entry.SymbolID = int(symbolID)
				entry.HasSymbolID = true
			}
		} else {
			vec, err := readVector(br, dim)
			if err != nil {
				return Document{}, err
			}
			entry.Vector = tensor.L2Normalize(vec)
			entry.HasVector = true
		}

		var metaCount uint32
		if err := binary.Read(br, binary.LittleEndian, &metaCount); err != nil {
			return Document{}, ErrReadFailed
		}
		if metaCount > MaxMetaCount {
			return Document{}, ErrMetaCountTooLarge
		}
		for j := uint32(0); j < metaCount; j++ {
			key, err := readString(br)
			if err != nil {
				return Document{}, err
			}
			value, err := readString(br)
			if err != nil {
				return Document{}, err
			}
			entry.Meta[key] = value
		}
		if _, ok := entry.Meta["stability"]; !ok {
			entry.Meta["stability"] = "0"
		}

		reflexes = append(reflexes, entry)
	}

	return Document{Version: version, Dim: dim, Symbols: symbols, Reflexes: reflexes}, nil
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func readString(r io.Reader) (string, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", ErrReadFailed
	}
	if length > MaxStringBytes {
		return "", ErrStringLengthExceeded
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", ErrReadFailed
	}
	return string(buf), nil
}

func readVector(r io.Reader, dim int) (tensor.Tensor, error) {
	data := make([]float32, dim)
	for i := range data {
		if err := binary.Read(r, binary.LittleEndian, &data[i]); err != nil {
			return tensor.Tensor{}, ErrReadFailed
		}
	}
	return tensor.FromFlat(data), nil
}
