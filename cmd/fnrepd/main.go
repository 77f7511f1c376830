// fnrepd deep-parses a replay once and serves its decoded frames over a
// websocket to any authenticated viewer, at a configurable playback
// rate.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harrowgate/fnrep/container"
	"github.com/harrowgate/fnrep/replay"
	"github.com/harrowgate/fnrep/server"
)

func main() {
	addr := flag.String("addr", ":8787", "address to listen on")
	rate := flag.Duration("rate", 50*time.Millisecond, "delay between streamed frames, 0 for unthrottled")
	secret := flag.String("secret", "", "shared HMAC secret for bearer-token auth; empty disables auth")
	issue := flag.Bool("issue-token", false, "print a bearer token signed with -secret and exit")
	flag.Parse()

	if *issue {
		if *secret == "" {
			fmt.Fprintln(os.Stderr, "fnrepd: -issue-token requires -secret")
			os.Exit(2)
		}
		tok, err := server.IssueToken([]byte(*secret), "fnrepd-viewer")
		if err != nil {
			fmt.Fprintln(os.Stderr, "fnrepd:", err)
			os.Exit(1)
		}
		fmt.Println(tok)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: fnrepd [flags] <replay-file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	r, err := replay.ParseFileConfig(path, replay.Config{Frames: true, Codec: container.ZlibDecompressor{}})
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("fnrepd: failed to parse replay")
	}
	log.Info().Int("frames", len(r.Frames)).Str("file", path).Msg("fnrepd: replay parsed, starting server")

	var auth *server.Authenticator
	if *secret != "" {
		auth = server.NewAuthenticator([]byte(*secret))
	}
	srv := server.New(r.Frames, *rate, auth)

	log.Info().Str("addr", *addr).Msg("fnrepd: listening")
	if err := http.ListenAndServe(*addr, srv); err != nil {
		log.Fatal().Err(err).Msg("fnrepd: server stopped")
	}
}
