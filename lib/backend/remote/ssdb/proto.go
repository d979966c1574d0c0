package ssdb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/ValentinKolb/bKV/lib/backend"
)

// --------------------------------------------------------------------------
// Wire Protocol
// --------------------------------------------------------------------------

// The SSDB wire format is a list of blocks terminated by an empty line.
// Each block is the decimal byte length, a newline, the payload bytes and
// another newline:
//
//	3\n
//	get\n
//	3\n
//	key\n
//	\n
//
// Replies use the same format with the status ("ok", "not_found", ...) as
// the first block.

// Reply status values defined by the protocol
const (
	statusOK          = "ok"
	statusNotFound    = "not_found"
	statusError       = "error"
	statusFail        = "fail"
	statusClientError = "client_error"
)

// writeRequest writes one command with its arguments as a block list
func writeRequest(w *bufio.Writer, args []string) error {
	for _, arg := range args {
		if _, err := w.WriteString(strconv.Itoa(len(arg))); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
		if _, err := w.WriteString(arg); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}

// reply is one parsed server reply: the status block followed by the data
// blocks
type reply struct {
	status string
	fields []string
}

// readReply reads one block list from the connection
func readReply(r *bufio.Reader) (*reply, error) {
	var blocks []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = trimLineEnding(line)

		// Empty line terminates the reply
		if line == "" {
			break
		}

		size, err := strconv.Atoi(line)
		if err != nil || size < 0 {
			return nil, fmt.Errorf("%w: bad block length %q", backend.ErrProtocol, line)
		}

		buf := make([]byte, size)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		// Each payload is followed by its own line ending
		end, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		if trimLineEnding(end) != "" {
			return nil, fmt.Errorf("%w: unterminated block of length %d", backend.ErrProtocol, size)
		}
		blocks = append(blocks, string(buf))
	}

	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: empty reply", backend.ErrProtocol)
	}
	return &reply{status: blocks[0], fields: blocks[1:]}, nil
}

// trimLineEnding strips the trailing \n (and a \r before it, which some
// server builds emit)
func trimLineEnding(line string) string {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	if n > 0 && line[n-1] == '\r' {
		n--
	}
	return line[:n]
}

// --------------------------------------------------------------------------
// Reply Accessors
// --------------------------------------------------------------------------

// err converts a non-ok status into an error. A not_found status is not an
// error; callers check notFound separately.
func (r *reply) err(cmd string) error {
	switch r.status {
	case statusOK, statusNotFound:
		return nil
	default:
		detail := ""
		if len(r.fields) > 0 {
			detail = ": " + r.fields[0]
		}
		return fmt.Errorf("%w: %s replied %s%s", backend.ErrServer, cmd, r.status, detail)
	}
}

// notFound reports whether the server answered not_found
func (r *reply) notFound() bool {
	return r.status == statusNotFound
}

// first returns the first data field, or an empty string
func (r *reply) first() string {
	if len(r.fields) == 0 {
		return ""
	}
	return r.fields[0]
}

// firstInt parses the first data field as an integer
func (r *reply) firstInt(cmd string) (int64, error) {
	if len(r.fields) == 0 {
		return 0, fmt.Errorf("%w: %s replied without a value", backend.ErrProtocol, cmd)
	}
	n, err := strconv.ParseInt(r.fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s replied non-integer %q", backend.ErrProtocol, cmd, r.fields[0])
	}
	return n, nil
}

// entries converts alternating key/value fields into hash entries
func (r *reply) entries(cmd string) ([]backend.Entry, error) {
	if len(r.fields)%2 != 0 {
		return nil, fmt.Errorf("%w: %s replied %d fields, want pairs", backend.ErrProtocol, cmd, len(r.fields))
	}
	entries := make([]backend.Entry, 0, len(r.fields)/2)
	for i := 0; i < len(r.fields); i += 2 {
		entries = append(entries, backend.Entry{Key: r.fields[i], Value: r.fields[i+1]})
	}
	return entries, nil
}

// scoredEntries converts alternating member/score fields into sorted-set
// entries
func (r *reply) scoredEntries(cmd string) ([]backend.ScoredEntry, error) {
	if len(r.fields)%2 != 0 {
		return nil, fmt.Errorf("%w: %s replied %d fields, want pairs", backend.ErrProtocol, cmd, len(r.fields))
	}
	entries := make([]backend.ScoredEntry, 0, len(r.fields)/2)
	for i := 0; i < len(r.fields); i += 2 {
		score, err := strconv.ParseInt(r.fields[i+1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s replied non-integer score %q", backend.ErrProtocol, cmd, r.fields[i+1])
		}
		entries = append(entries, backend.ScoredEntry{Key: r.fields[i], Score: score})
	}
	return entries, nil
}

// formatScore renders an optional score bound; unbounded renders as the
// empty block the protocol expects
func formatScore(s backend.Score) string {
	if !s.Valid {
		return ""
	}
	return strconv.FormatInt(s.N, 10)
}
