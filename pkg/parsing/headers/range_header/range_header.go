package range_header

import (
	_ "embed"
	"fmt"
	"strconv"

	"github.com/Motmedel/parsing_utils/pkg/parsing_utils"
	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	goabnf "github.com/pandatix/go-abnf"
)

//go:embed grammar.txt
var grammar []byte

var RangeGrammar *goabnf.Grammar

// ByteRange is the parsed form of a `bytes=<first>-<last>` header value. A
// nil position means the corresponding field was omitted. Positions that do
// not fit in a uint64 degrade to omitted rather than failing the parse.
type ByteRange struct {
	Begin *uint64
	End   *uint64
	Raw   string
}

// Resolve computes the concrete inclusive offsets against a known total
// length. The arithmetic reproduces the session server's historical
// behavior: an omitted last position means "through the end", and an omitted
// first position reuses the last position as a suffix length
// (begin = total - end) before snapping end to total - 1. The suffix form
// therefore diverges from the RFC 7233 reading in some edge cases, and
// callers depend on it staying that way.
func (byteRange *ByteRange) Resolve(totalLength uint64) (uint64, uint64) {
	var begin uint64
	end := totalLength - 1

	if byteRange.End != nil {
		end = *byteRange.End
	}

	if byteRange.Begin != nil {
		begin = *byteRange.Begin
	} else {
		begin = totalLength - end
		end = totalLength - 1
	}

	return begin, end
}

func parseBytePosition(data []byte) *uint64 {
	if len(data) == 0 {
		return nil
	}

	value, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		// Lenient conversion: an out-of-range position behaves like an
		// omitted one.
		return nil
	}

	return &value
}

// ParseRangeHeader parses a Range header value. A value that does not match
// the grammar in full yields motmedelErrors.ErrSyntaxError; the caller is
// expected to answer 416 in that case.
func ParseRangeHeader(data []byte) (*ByteRange, error) {
	paths, err := parsing_utils.GetParsedDataPaths(RangeGrammar, data)
	if err != nil {
		return nil, motmedelErrors.New(fmt.Errorf("get parsed data paths: %w", err), data)
	}
	if len(paths) == 0 {
		return nil, motmedelErrors.NewWithTrace(motmedelErrors.ErrSyntaxError, data)
	}

	var byteRange ByteRange

	firstBytePosPath := parsing_utils.SearchPathSingleName(
		paths[0],
		"first-byte-pos",
		4,
		false,
	)
	if firstBytePosPath != nil {
		byteRange.Begin = parseBytePosition(parsing_utils.ExtractPathValue(data, firstBytePosPath))
	}

	lastBytePosPath := parsing_utils.SearchPathSingleName(
		paths[0],
		"last-byte-pos",
		4,
		false,
	)
	if lastBytePosPath != nil {
		byteRange.End = parseBytePosition(parsing_utils.ExtractPathValue(data, lastBytePosPath))
	}

	byteRange.Raw = string(data)

	return &byteRange, nil
}

func init() {
	var err error
	RangeGrammar, err = goabnf.ParseABNF(grammar)
	if err != nil {
		panic(fmt.Sprintf("goabnf parse abnf (range grammar): %v", err))
	}
}
