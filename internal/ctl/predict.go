package ctl

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/severity/internal/common"
	gs "github.com/dmitrijs2005/severity/internal/server/grpc"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// remote holds the flags shared by the commands that call the server.
type remote struct {
	addr     string
	username string
	timeout  time.Duration
}

func (r *remote) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&r.addr, "addr", envOr("SEVERITY_GRPC_ADDR", "localhost:50051"), "server gRPC address")
	f.StringVarP(&r.username, "username", "u", "", "account to log in as")
	f.DurationVar(&r.timeout, "timeout", 10*time.Second, "request timeout")
	_ = cmd.MarkFlagRequired("username")
}

// dial is a test seam.
var dial = func(addr string) (grpc.ClientConnInterface, io.Closer, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	return conn, conn, nil
}

// session is a logged-in connection to the server.
type session struct {
	ctx    context.Context
	client *gs.Client
	token  string
	close  func()
}

// login prompts for the password and logs in.
func (r *remote) login(cmd *cobra.Command) (*session, error) {
	pw, err := GetPassword(cmd.ErrOrStderr(), "Enter password: ")
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(pw)

	cc, closer, err := dial(r.addr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), r.timeout)
	s := &session{
		ctx:    ctx,
		client: gs.NewClient(cc),
		close: func() {
			cancel()
			_ = closer.Close()
		},
	}

	if s.token, err = s.client.Login(ctx, r.username, string(pw)); err != nil {
		s.close()
		return nil, fmt.Errorf("login: %w", err)
	}
	return s, nil
}

func parseFeatureArgs(args []string) ([common.FeatureCount]float64, error) {
	var f [common.FeatureCount]float64
	if len(args) != common.FeatureCount {
		return f, fmt.Errorf("%w: want %d values, got %d", common.ErrInvalidInput, common.FeatureCount, len(args))
	}
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return f, fmt.Errorf("%w: A%d must be a number", common.ErrInvalidInput, i+1)
		}
		f[i] = v
	}
	return f, nil
}

func (a *app) predictCommand() *cobra.Command {
	r := &remote{}
	cmd := &cobra.Command{
		Use:   "predict A1 A2 A3 A4 A5 A6 A7 A8 A9 A10",
		Short: "Classify one feature vector on a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			features, err := parseFeatureArgs(args)
			if err != nil {
				return err
			}

			s, err := r.login(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			resp, err := s.client.Predict(s.ctx, s.token, features)
			if err != nil {
				return err
			}

			f := resp.GetFields()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "#%d severity %d\n", int64(f["local_id"].GetNumberValue()), int(f["result"].GetNumberValue()))
			if advice := f["advice"].GetStringValue(); advice != "" {
				fmt.Fprintln(w, advice)
			}
			return nil
		},
	}
	r.bind(cmd)
	return cmd
}

func (a *app) historyCommand() *cobra.Command {
	r := &remote{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the account's predictions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := r.login(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			resp, err := s.client.History(s.ctx, s.token)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTIME\tRESULT\tFEATURES")
			for _, v := range resp.GetFields()["records"].GetListValue().GetValues() {
				rec := v.GetStructValue().GetFields()
				feats := ""
				for i, x := range rec["features"].GetListValue().GetValues() {
					if i > 0 {
						feats += " "
					}
					feats += strconv.FormatFloat(x.GetNumberValue(), 'f', -1, 64)
				}
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n",
					int64(rec["local_id"].GetNumberValue()),
					rec["created_at"].GetStringValue(),
					int(rec["result"].GetNumberValue()),
					feats)
			}
			return tw.Flush()
		},
	}
	r.bind(cmd)
	return cmd
}
