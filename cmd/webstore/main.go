// Command webstore inspects and edits a webstore-managed backend.
//
// Usage:
//
//	webstore [-bucket B] [-ttl D] [-session] get KEY
//	webstore [-bucket B] [-ttl D] [-session] set KEY VALUE
//	webstore [-bucket B] [-session] rm KEY
//	webstore [-bucket B] keys
//	webstore [-session] clear
//	webstore clear-bucket BUCKET
//	webstore [-bucket B] flush-expired
//
// Backends, codec and logger are selected with WEBSTORE_* environment
// variables. VALUE is stored as JSON when it parses as JSON, otherwise as a
// plain string.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/unkn0wn-root/webstore"
	"github.com/unkn0wn-root/webstore/internal/config"
)

var errUsage = errors.New("usage: webstore [flags] get|set|rm|keys|clear|clear-bucket|flush-expired [args]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}

type flags struct {
	bucket  string
	ttl     time.Duration
	ttlSet  bool
	session bool
}

func parseFlags(args []string, stderr io.Writer) (flags, []string, error) {
	var f flags
	fs := flag.NewFlagSet("webstore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.bucket, "bucket", string(webstore.Others), "bucket to operate on")
	fs.DurationVar(&f.ttl, "ttl", 0, "entry lifetime for set (0 = no expiry; capped in the others bucket)")
	fs.BoolVar(&f.session, "session", false, "use the session store instead of the durable one")
	if err := fs.Parse(args); err != nil {
		return flags{}, nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "ttl" {
			f.ttlSet = true
		}
	})
	return f, fs.Args(), nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	f, rest, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return errUsage
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a, err := build(ctx, cfg, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = a.close(ctx) }()

	if !a.st.Local().Supported() {
		return fmt.Errorf("%s backend unsupported: %w", cfg.Backend, webstore.ErrUnsupported)
	}
	return dispatch(ctx, a.st, f, rest, stdout)
}

func dispatch(ctx context.Context, st *webstore.Storage, f flags, rest []string, stdout io.Writer) error {
	typ := webstore.LocalStorage
	store := st.Local()
	if f.session {
		typ = webstore.SessionStorage
		store = st.Session()
	}
	bucket := webstore.Bucket(f.bucket)
	opts := []webstore.Option{webstore.InBucket(bucket)}
	if f.ttlSet {
		opts = append(opts, webstore.WithTTL(f.ttl))
	}

	cmd, args := rest[0], rest[1:]
	need := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s: expected %d argument(s), got %d", cmd, n, len(args))
		}
		return nil
	}

	switch cmd {
	case "get":
		if err := need(1); err != nil {
			return err
		}
		v, ok := st.Get(ctx, args[0], typ, opts...)
		if !ok {
			return fmt.Errorf("get %q: %w", args[0], webstore.ErrNotFound)
		}
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, string(out))
		return err
	case "set":
		if err := need(2); err != nil {
			return err
		}
		var v any
		if err := json.Unmarshal([]byte(args[1]), &v); err != nil {
			v = args[1]
		}
		if !st.Set(ctx, args[0], v, typ, opts...) {
			return fmt.Errorf("set %q failed (WEBSTORE_WARNINGS=true for details)", args[0])
		}
		return nil
	case "rm":
		if err := need(1); err != nil {
			return err
		}
		st.ClearKey(ctx, args[0], typ, opts...)
		return nil
	case "keys":
		if err := need(0); err != nil {
			return err
		}
		keys, err := store.Keys(ctx, bucket)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(stdout, k.Name)
		}
		return nil
	case "clear":
		if err := need(0); err != nil {
			return err
		}
		st.Clear(ctx, typ)
		return nil
	case "clear-bucket":
		if err := need(1); err != nil {
			return err
		}
		st.ClearBucket(ctx, webstore.Bucket(args[0]))
		return nil
	case "flush-expired":
		if err := need(0); err != nil {
			return err
		}
		n, err := store.FlushExpired(ctx, bucket)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "removed %d expired entries\n", n)
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}
