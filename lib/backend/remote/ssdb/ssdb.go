package ssdb

import (
	"context"
	"strconv"
	"time"

	"github.com/ValentinKolb/bKV/lib/backend"
)

// --------------------------------------------------------------------------
// Client
// --------------------------------------------------------------------------

// client implements backend.Conn against a remote SSDB-compatible server
type client struct {
	pool *pool
}

// New connects to the configured endpoints and returns the client. At least
// one endpoint must be reachable.
func New(config Config) (backend.Conn, error) {
	p, err := newPool(config)
	if err != nil {
		return nil, err
	}
	return &client{pool: p}, nil
}

// exec runs one command and checks the reply status
func (c *client) exec(ctx context.Context, args ...string) (*reply, error) {
	start := time.Now()
	resp, err := c.pool.do(ctx, args)
	if err == nil {
		err = resp.err(args[0])
	}
	observe(args[0], start, err)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func itoa(n int) string { return strconv.Itoa(n) }

// limitArg renders a scan limit; non-positive limits turn into the empty
// block, which the server reads as "no limit"
func limitArg(limit int) string {
	if limit <= 0 {
		return ""
	}
	return strconv.Itoa(limit)
}

// --------------------------------------------------------------------------
// Conn Interface - Flat Key-Value Space
// --------------------------------------------------------------------------

func (c *client) Get(ctx context.Context, key string) (string, bool, error) {
	resp, err := c.exec(ctx, "get", key)
	if err != nil {
		return "", false, err
	}
	if resp.notFound() {
		return "", false, nil
	}
	return resp.first(), true, nil
}

func (c *client) Set(ctx context.Context, key, value string) error {
	_, err := c.exec(ctx, "set", key, value)
	return err
}

func (c *client) SetX(ctx context.Context, key, value string, ttl time.Duration) error {
	// The server counts TTLs in whole seconds
	secs := int64(ttl / time.Second)
	if secs <= 0 {
		secs = 1
	}
	_, err := c.exec(ctx, "setx", key, value, strconv.FormatInt(secs, 10))
	return err
}

func (c *client) Del(ctx context.Context, key string) error {
	_, err := c.exec(ctx, "del", key)
	return err
}

// --------------------------------------------------------------------------
// Conn Interface - Hash Namespaces
// --------------------------------------------------------------------------

func (c *client) HSet(ctx context.Context, ns, key, value string) error {
	_, err := c.exec(ctx, "hset", ns, key, value)
	return err
}

func (c *client) HGet(ctx context.Context, ns, key string) (string, bool, error) {
	resp, err := c.exec(ctx, "hget", ns, key)
	if err != nil {
		return "", false, err
	}
	if resp.notFound() {
		return "", false, nil
	}
	return resp.first(), true, nil
}

func (c *client) HDel(ctx context.Context, ns, key string) error {
	_, err := c.exec(ctx, "hdel", ns, key)
	return err
}

func (c *client) HDelMany(ctx context.Context, ns string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	args := append([]string{"multi_hdel", ns}, keys...)
	_, err := c.exec(ctx, args...)
	return err
}

func (c *client) HIncr(ctx context.Context, ns, key string, delta int64) (int64, error) {
	resp, err := c.exec(ctx, "hincr", ns, key, strconv.FormatInt(delta, 10))
	if err != nil {
		return 0, err
	}
	return resp.firstInt("hincr")
}

func (c *client) HExists(ctx context.Context, ns, key string) (bool, error) {
	resp, err := c.exec(ctx, "hexists", ns, key)
	if err != nil {
		return false, err
	}
	if resp.notFound() {
		return false, nil
	}
	return resp.first() == "1", nil
}

func (c *client) HSize(ctx context.Context, ns string) (int64, error) {
	resp, err := c.exec(ctx, "hsize", ns)
	if err != nil {
		return 0, err
	}
	return resp.firstInt("hsize")
}

func (c *client) HClear(ctx context.Context, ns string) error {
	_, err := c.exec(ctx, "hclear", ns)
	return err
}

func (c *client) HGetAll(ctx context.Context, ns string) ([]backend.Entry, error) {
	resp, err := c.exec(ctx, "hgetall", ns)
	if err != nil {
		return nil, err
	}
	return resp.entries("hgetall")
}

func (c *client) HKeys(ctx context.Context, ns, start, end string, limit int) ([]string, error) {
	resp, err := c.exec(ctx, "hkeys", ns, start, end, limitArg(limit))
	if err != nil {
		return nil, err
	}
	return resp.fields, nil
}

func (c *client) HScan(ctx context.Context, ns, start, end string, limit int) ([]backend.Entry, error) {
	resp, err := c.exec(ctx, "hscan", ns, start, end, limitArg(limit))
	if err != nil {
		return nil, err
	}
	return resp.entries("hscan")
}

func (c *client) HRScan(ctx context.Context, ns, start, end string, limit int) ([]backend.Entry, error) {
	resp, err := c.exec(ctx, "hrscan", ns, start, end, limitArg(limit))
	if err != nil {
		return nil, err
	}
	return resp.entries("hrscan")
}

func (c *client) HList(ctx context.Context, start, end string, limit int) ([]string, error) {
	resp, err := c.exec(ctx, "hlist", start, end, limitArg(limit))
	if err != nil {
		return nil, err
	}
	return resp.fields, nil
}

// --------------------------------------------------------------------------
// Conn Interface - Sorted Sets
// --------------------------------------------------------------------------

func (c *client) ZSet(ctx context.Context, ns, key string, score int64) error {
	_, err := c.exec(ctx, "zset", ns, key, strconv.FormatInt(score, 10))
	return err
}

func (c *client) ZGet(ctx context.Context, ns, key string) (int64, bool, error) {
	resp, err := c.exec(ctx, "zget", ns, key)
	if err != nil {
		return 0, false, err
	}
	if resp.notFound() {
		return 0, false, nil
	}
	score, err := resp.firstInt("zget")
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

func (c *client) ZDel(ctx context.Context, ns, key string) error {
	_, err := c.exec(ctx, "zdel", ns, key)
	return err
}

func (c *client) ZIncr(ctx context.Context, ns, key string, delta int64) (int64, error) {
	resp, err := c.exec(ctx, "zincr", ns, key, strconv.FormatInt(delta, 10))
	if err != nil {
		return 0, err
	}
	return resp.firstInt("zincr")
}

func (c *client) ZSize(ctx context.Context, ns string) (int64, error) {
	resp, err := c.exec(ctx, "zsize", ns)
	if err != nil {
		return 0, err
	}
	return resp.firstInt("zsize")
}

func (c *client) ZClear(ctx context.Context, ns string) error {
	_, err := c.exec(ctx, "zclear", ns)
	return err
}

func (c *client) ZCount(ctx context.Context, ns string, start, end backend.Score) (int64, error) {
	resp, err := c.exec(ctx, "zcount", ns, formatScore(start), formatScore(end))
	if err != nil {
		return 0, err
	}
	return resp.firstInt("zcount")
}

func (c *client) ZList(ctx context.Context, start, end string, limit int) ([]string, error) {
	resp, err := c.exec(ctx, "zlist", start, end, limitArg(limit))
	if err != nil {
		return nil, err
	}
	return resp.fields, nil
}

func (c *client) ZScan(ctx context.Context, ns, keyStart string, scoreStart, scoreEnd backend.Score, limit int) ([]backend.ScoredEntry, error) {
	resp, err := c.exec(ctx, "zscan", ns, keyStart, formatScore(scoreStart), formatScore(scoreEnd), limitArg(limit))
	if err != nil {
		return nil, err
	}
	return resp.scoredEntries("zscan")
}

func (c *client) ZRScan(ctx context.Context, ns, keyStart string, scoreStart, scoreEnd backend.Score, limit int) ([]backend.ScoredEntry, error) {
	resp, err := c.exec(ctx, "zrscan", ns, keyStart, formatScore(scoreStart), formatScore(scoreEnd), limitArg(limit))
	if err != nil {
		return nil, err
	}
	return resp.scoredEntries("zrscan")
}

func (c *client) ZRange(ctx context.Context, ns string, offset, limit int) ([]backend.ScoredEntry, error) {
	resp, err := c.exec(ctx, "zrange", ns, itoa(offset), limitArg(limit))
	if err != nil {
		return nil, err
	}
	return resp.scoredEntries("zrange")
}

func (c *client) ZRRange(ctx context.Context, ns string, offset, limit int) ([]backend.ScoredEntry, error) {
	resp, err := c.exec(ctx, "zrrange", ns, itoa(offset), limitArg(limit))
	if err != nil {
		return nil, err
	}
	return resp.scoredEntries("zrrange")
}

// --------------------------------------------------------------------------
// Conn Interface - Queues
// --------------------------------------------------------------------------

func (c *client) QPushFront(ctx context.Context, queue string, values ...string) (int64, error) {
	args := append([]string{"qpush_front", queue}, values...)
	resp, err := c.exec(ctx, args...)
	if err != nil {
		return 0, err
	}
	return resp.firstInt("qpush_front")
}

func (c *client) QPushBack(ctx context.Context, queue string, values ...string) (int64, error) {
	args := append([]string{"qpush_back", queue}, values...)
	resp, err := c.exec(ctx, args...)
	if err != nil {
		return 0, err
	}
	return resp.firstInt("qpush_back")
}

func (c *client) QSize(ctx context.Context, queue string) (int64, error) {
	resp, err := c.exec(ctx, "qsize", queue)
	if err != nil {
		return 0, err
	}
	return resp.firstInt("qsize")
}

func (c *client) QRange(ctx context.Context, queue string, offset, limit int) ([]string, error) {
	resp, err := c.exec(ctx, "qrange", queue, itoa(offset), limitArg(limit))
	if err != nil {
		return nil, err
	}
	return resp.fields, nil
}

func (c *client) QTrimFront(ctx context.Context, queue string, size int) (int64, error) {
	resp, err := c.exec(ctx, "qtrim_front", queue, itoa(size))
	if err != nil {
		return 0, err
	}
	return resp.firstInt("qtrim_front")
}

func (c *client) QTrimBack(ctx context.Context, queue string, size int) (int64, error) {
	resp, err := c.exec(ctx, "qtrim_back", queue, itoa(size))
	if err != nil {
		return 0, err
	}
	return resp.firstInt("qtrim_back")
}

func (c *client) QPopFront(ctx context.Context, queue string, size int) ([]string, error) {
	resp, err := c.exec(ctx, "qpop_front", queue, itoa(size))
	if err != nil {
		return nil, err
	}
	if resp.notFound() {
		return nil, nil
	}
	return resp.fields, nil
}

func (c *client) QPopBack(ctx context.Context, queue string, size int) ([]string, error) {
	resp, err := c.exec(ctx, "qpop_back", queue, itoa(size))
	if err != nil {
		return nil, err
	}
	if resp.notFound() {
		return nil, nil
	}
	return resp.fields, nil
}

func (c *client) QClear(ctx context.Context, queue string) error {
	_, err := c.exec(ctx, "qclear", queue)
	return err
}

// --------------------------------------------------------------------------
// Conn Interface - Admin
// --------------------------------------------------------------------------

func (c *client) Info(ctx context.Context) (map[string]string, error) {
	resp, err := c.exec(ctx, "info")
	if err != nil {
		return nil, err
	}
	fields := resp.fields
	// The server prefixes the field pairs with its banner block
	if len(fields)%2 == 1 {
		fields = fields[1:]
	}
	info := make(map[string]string, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		info[fields[i]] = fields[i+1]
	}
	return info, nil
}

func (c *client) DBSize(ctx context.Context) (int64, error) {
	resp, err := c.exec(ctx, "dbsize")
	if err != nil {
		return 0, err
	}
	return resp.firstInt("dbsize")
}

func (c *client) Close() error {
	c.pool.close()
	return nil
}
