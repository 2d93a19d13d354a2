// Package cli implements bedfastctl, a small operator tool for checking
// access windows and minting dev tokens.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/bedfast/access-service/internal/auth"
	"github.com/bedfast/access-service/internal/bedfast/access"
	"github.com/bedfast/access-service/internal/bedfast/service"
	"github.com/bedfast/access-service/internal/bedfast/types"
	"github.com/bedfast/access-service/internal/grpcapi"
)

const usage = `usage: bedfastctl <command> [flags]

commands:
  evaluate   evaluate an access window
  token      mint a signed identity token for local testing
`

// Run executes bedfastctl with args (without the program name) and returns
// the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	var err error
	switch args[0] {
	case "evaluate":
		err = runEvaluate(args[1:], stdout, stderr)
	case "token":
		err = runToken(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "bedfastctl: %v\n", err)
		return 1
	}
	return 0
}

func runEvaluate(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		req       types.EvaluateRequest
		grace     = fs.Duration("grace", access.DefaultOfflineGrace, "offline grace before start")
		inclusive = fs.Bool("inclusive-start", false, "treat now == start as active")
		asJSON    = fs.Bool("json", false, "print the result as JSON")
		remote    = fs.String("grpc", "", "evaluate on a bedfast server at this gRPC address")
	)
	fs.StringVar(&req.Start, "start", "", "window start (RFC 3339)")
	fs.StringVar(&req.End, "end", "", "window end (RFC 3339)")
	fs.StringVar(&req.Now, "now", "", "evaluation instant (RFC 3339, default: current time)")
	fs.BoolVar(&req.Offline, "offline", false, "evaluate as an offline device")
	fs.StringVar(&req.LastSync, "last-sync", "", "last trusted sync (RFC 3339)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		resp types.EvaluateResponse
		err  error
	)
	if *remote != "" {
		resp, err = evaluateRemote(*remote, req)
	} else {
		ev := service.NewWindowEvaluator(service.Options{
			Policy: access.Policy{OfflineGrace: *grace, InclusiveStart: *inclusive},
		})
		resp, err = ev.Evaluate(req)
	}
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printResult(stdout, req, resp)
	return nil
}

func evaluateRemote(addr string, req types.EvaluateRequest) (types.EvaluateResponse, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return types.EvaluateResponse{}, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return grpcapi.NewClient(conn).Evaluate(ctx, req)
}

var badges = map[string]*color.Color{
	string(access.StatusActive):   color.New(color.FgBlack, color.BgGreen, color.Bold),
	string(access.StatusUpcoming): color.New(color.FgBlack, color.BgYellow, color.Bold),
	string(access.StatusExpired):  color.New(color.FgWhite, color.BgRed, color.Bold),
}

func printResult(w io.Writer, req types.EvaluateRequest, resp types.EvaluateResponse) {
	badge, ok := badges[resp.Status]
	if !ok {
		badge = color.New(color.Bold)
	}
	badge.Fprintf(w, " %s ", resp.Status)

	if resp.Reveal {
		color.New(color.FgGreen).Fprint(w, "  PIN visible")
	} else {
		color.New(color.FgRed).Fprint(w, "  PIN hidden")
	}
	fmt.Fprintln(w)

	if r := resp.Remaining; r != nil {
		fmt.Fprintf(w, "remaining: %dh %dm\n", r.Hours, r.Minutes)
	}
	if resp.Status == string(access.StatusUpcoming) {
		if phrase := startsIn(req); phrase != "" {
			fmt.Fprintf(w, "starts %s\n", phrase)
		}
	}
}

// startsIn renders the start relative to the evaluation instant, e.g.
// "2 days from now".
func startsIn(req types.EvaluateRequest) string {
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		return ""
	}
	now := time.Now()
	if req.Now != "" {
		if now, err = time.Parse(time.RFC3339, req.Now); err != nil {
			return ""
		}
	}
	return humanize.RelTime(start, now, "ago", "from now")
}

func runToken(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		user   = fs.String("user", "", "subject (user id)")
		email  = fs.String("email", "", "optional email claim")
		secret = fs.String("secret", "bedfast-dev-secret", "HS256 signing secret")
		ttl    = fs.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		return errors.New("-user is required")
	}

	tok, err := auth.NewVerifier(*secret).Issue(*user, *email, *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, tok)
	return nil
}
