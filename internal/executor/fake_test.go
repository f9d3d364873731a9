package executor

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"sync"
)

var (
	fakeBeginRe = regexp.MustCompile(`<<rpkgs:begin:([^>]+)>>`)
	fakeCodeRe  = regexp.MustCompile(`parse\(text = ("(?:[^"\\]|\\.)*")`)
)

// fakeReply is what the fake interpreter prints for one submission.
type fakeReply struct {
	output []string
	err    string
	// hang leaves the submission without an end marker
	hang bool
}

// fakeInterpreter reads wrapped submissions like R would and answers with
// status markers. It records every submitted code string.
type fakeInterpreter struct {
	respond func(code string) fakeReply

	mu    sync.Mutex
	codes []string
}

func (f *fakeInterpreter) submitted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.codes...)
}

func (f *fakeInterpreter) run(in io.Reader, out io.WriteCloser) {
	defer out.Close()
	sc := bufio.NewScanner(in)
	var id, code string
	for sc.Scan() {
		line := sc.Text()
		if m := fakeBeginRe.FindStringSubmatch(line); m != nil && id == "" {
			id = m[1]
		}
		if m := fakeCodeRe.FindStringSubmatch(line); m != nil {
			code, _ = strconv.Unquote(m[1])
		}
		if line != "})" {
			continue
		}
		f.mu.Lock()
		f.codes = append(f.codes, code)
		f.mu.Unlock()

		reply := fakeReply{}
		if f.respond != nil {
			reply = f.respond(code)
		}
		fmt.Fprintf(out, "<<rpkgs:begin:%s>>\n", id)
		for _, o := range reply.output {
			fmt.Fprintln(out, o)
		}
		switch {
		case reply.hang:
		case reply.err != "":
			fmt.Fprintf(out, "<<rpkgs:error:%s>> %s\n", id, reply.err)
		default:
			fmt.Fprintf(out, "<<rpkgs:ok:%s>>\n", id)
		}
		id, code = "", ""
	}
}

// startFake wires a fake interpreter to a new process value.
func startFake(f *fakeInterpreter) *process {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	go f.run(inR, outW)
	return &process{
		stdin:  inW,
		output: outR,
		kill:   func() error { return outW.Close() },
	}
}

// syncBuffer is a bytes.Buffer safe for use from the session reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
