// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package redisres

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const slowDelay = 300 * time.Millisecond

// fakeServer speaks just enough RESP2 to serve the commands the tests
// send. Unknown commands, including the client's connection handshake,
// get an ERR reply.
type fakeServer struct {
	ln      net.Listener
	lock    sync.Mutex
	data    map[string]string
	loading int
}

func newFakeServer(t *testing.T) *fakeServer {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeServer{ln: ln, data: map[string]string{}}
	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

func (s *fakeServer) client(t *testing.T, readTimeout time.Duration) *redis.Client {
	c := redis.NewClient(&redis.Options{
		Addr:        s.ln.Addr().String(),
		Protocol:    2,
		MaxRetries:  -1,
		ReadTimeout: readTimeout,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func (s *fakeServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeServer) handle(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	r := bufio.NewReader(conn)
	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}
		if _, err = io.WriteString(conn, s.reply(args)); err != nil {
			return
		}
	}
}

func (s *fakeServer) reply(args []string) string {
	switch strings.ToUpper(args[0]) {
	case "PING":
		return "+PONG\r\n"
	case "SET":
		s.lock.Lock()
		defer s.lock.Unlock()
		s.data[args[1]] = args[2]
		return "+OK\r\n"
	case "GET":
		if args[1] == "slow" {
			time.Sleep(slowDelay)
		}
		s.lock.Lock()
		defer s.lock.Unlock()
		v, ok := s.data[args[1]]
		if !ok {
			return "$-1\r\n"
		}
		return fmt.Sprintf("$%d\r\n%s\r\n", len(v), v)
	case "INCR":
		s.lock.Lock()
		defer s.lock.Unlock()
		if s.loading > 0 {
			s.loading--
			return "-LOADING Redis is loading the dataset in memory\r\n"
		}
		n, _ := strconv.Atoi(s.data[args[1]])
		n++
		s.data[args[1]] = strconv.Itoa(n)
		return fmt.Sprintf(":%d\r\n", n)
	case "LPUSH":
		return "-WRONGTYPE Operation against a key holding the wrong kind of value\r\n"
	default:
		return fmt.Sprintf("-ERR unknown command '%s'\r\n", args[0])
	}
}

func readCommand(r *bufio.Reader) ([]string, error) {
	n, err := readLength(r, '*')
	if err != nil {
		return nil, err
	}
	args := make([]string, n)
	for i := range args {
		size, err := readLength(r, '$')
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size+2)
		if _, err = io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args[i] = string(buf[:size])
	}
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	return args, nil
}

func readLength(r *bufio.Reader, prefix byte) (int, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return 0, err
	}
	if len(line) < 3 || line[0] != prefix {
		return 0, fmt.Errorf("unexpected line %q", line)
	}
	return strconv.Atoi(strings.TrimSpace(line[1:]))
}
