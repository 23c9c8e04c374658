package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/digizeph/go-asrank/asrank"
	"github.com/digizeph/go-asrank/model"
	"github.com/digizeph/go-asrank/transport"
	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

const (
	endpointKey  = "endpoint"
	dateKey      = "date"
	chunkSizeKey = "chunk-size"
	retryMaxKey  = "retry-max"
	qpsKey       = "qps"
	logLevelKey  = "log-level"
)

// cli holds the configuration shared by all commands.
type cli struct {
	v   *viper.Viper
	out io.Writer
}

// newRootCmd builds the command tree. Results are written to out as JSON.
func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{
		v:   viper.New(),
		out: out,
	}

	root := &cobra.Command{
		Use:           "asrank",
		Short:         "Query AS topology from the CAIDA ASRank API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.SetLogLevel("*", c.v.GetString(logLevelKey))
		},
	}

	flags := root.PersistentFlags()
	flags.String(endpointKey, transport.DefaultEndpoint, "ASRank GraphQL endpoint")
	flags.String(dateKey, "", "dataset day as YYYY-MM-DD (default today)")
	flags.Int(chunkSizeKey, asrank.DefaultChunkSize, "maximum ASNs per batch query")
	flags.Int(retryMaxKey, 5, "retries of transient server failures")
	flags.Float64(qpsKey, 0, "maximum queries per second, 0 for no limit")
	flags.String(logLevelKey, "error", "log level: debug, info, warn, error")

	// Flags override ASRANK_* environment variables.
	c.v.SetEnvPrefix("ASRANK")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	if err := c.v.BindPFlags(flags); err != nil {
		panic(err)
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "dataset",
			Short: "Show the dataset date the session is pinned to",
			Args:  cobra.NoArgs,
			RunE: c.run(func(ctx context.Context, s *asrank.Session, _ []model.ASN) (interface{}, error) {
				return map[string]string{"dataset": s.DataDate()}, nil
			}),
		},
		&cobra.Command{
			Use:   "info ASN...",
			Short: "Show rank, organization, and degree of ASes",
			Args:  cobra.MinimumNArgs(1),
			RunE: c.run(func(ctx context.Context, s *asrank.Session, asns []model.ASN) (interface{}, error) {
				return s.Facts(ctx, asns)
			}),
		},
		&cobra.Command{
			Use:   "org ASN",
			Short: "Show the organization owning an AS",
			Args:  cobra.ExactArgs(1),
			RunE: c.run(func(ctx context.Context, s *asrank.Session, asns []model.ASN) (interface{}, error) {
				return s.Organization(ctx, asns[0])
			}),
		},
		&cobra.Command{
			Use:   "country ASN",
			Short: "Show the registration country of an AS",
			Args:  cobra.ExactArgs(1),
			RunE: c.run(func(ctx context.Context, s *asrank.Session, asns []model.ASN) (interface{}, error) {
				iso, err := s.RegisteredCountry(ctx, asns[0])
				if err != nil {
					return nil, err
				}
				return map[string]string{"asn": asns[0].String(), "country": iso}, nil
			}),
		},
		&cobra.Command{
			Use:   "degree ASN",
			Short: "Show the degree of an AS",
			Args:  cobra.ExactArgs(1),
			RunE: c.run(func(ctx context.Context, s *asrank.Session, asns []model.ASN) (interface{}, error) {
				return s.Degree(ctx, asns[0])
			}),
		},
		&cobra.Command{
			Use:   "rel FROM TO",
			Short: "Show the relationship of FROM toward TO",
			Args:  cobra.ExactArgs(2),
			RunE: c.run(func(ctx context.Context, s *asrank.Session, asns []model.ASN) (interface{}, error) {
				rel, err := s.Relationship(ctx, asns[0], asns[1])
				if err != nil {
					return nil, err
				}
				return relResult{From: asns[0], To: asns[1], Relationship: relName(rel)}, nil
			}),
		},
		&cobra.Command{
			Use:   "sole-provider PROVIDER CUSTOMER",
			Short: "Check whether PROVIDER is the only upstream of CUSTOMER",
			Args:  cobra.ExactArgs(2),
			RunE: c.run(func(ctx context.Context, s *asrank.Session, asns []model.ASN) (interface{}, error) {
				ok, err := s.IsSoleProvider(ctx, asns[0], asns[1])
				if err != nil {
					return nil, err
				}
				return map[string]bool{"soleProvider": ok}, nil
			}),
		},
		&cobra.Command{
			Use:   "cone MEMBER ROOT",
			Short: "Check whether MEMBER is in the customer cone of ROOT",
			Args:  cobra.ExactArgs(2),
			RunE: c.run(func(ctx context.Context, s *asrank.Session, asns []model.ASN) (interface{}, error) {
				ok, err := s.InCustomerCone(ctx, asns[0], asns[1])
				if err != nil {
					return nil, err
				}
				return map[string]bool{"inCone": ok}, nil
			}),
		},
		&cobra.Command{
			Use:   "neighbors ASN",
			Short: "List the providers, customers, and peers of an AS",
			Args:  cobra.ExactArgs(1),
			RunE: c.run(func(ctx context.Context, s *asrank.Session, asns []model.ASN) (interface{}, error) {
				return s.Neighbors(ctx, asns[0])
			}),
		},
		&cobra.Command{
			Use:   "siblings ASN...",
			Short: "List the ASes owned by the same organization",
			Args:  cobra.MinimumNArgs(1),
			RunE: c.run(func(ctx context.Context, s *asrank.Session, asns []model.ASN) (interface{}, error) {
				return s.SiblingsBulk(ctx, asns)
			}),
		},
	)
	return root
}

type relResult struct {
	From         model.ASN `json:"from"`
	To           model.ASN `json:"to"`
	Relationship string    `json:"relationship"`
}

func relName(rel model.Relationship) string {
	if !rel.Known() {
		return "unknown"
	}
	return string(rel)
}

type action func(ctx context.Context, s *asrank.Session, asns []model.ASN) (interface{}, error)

// run parses the ASN arguments, opens a session, and prints the result of
// the action.
func (c *cli) run(act action) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		asns, err := model.ParseASNs(args)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		s, err := c.openSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		result, err := act(ctx, s, asns)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("cannot encode result: %w", err)
		}
		_, err = fmt.Fprintln(c.out, string(out))
		return err
	}
}

func (c *cli) openSession(ctx context.Context) (*asrank.Session, error) {
	opts := []asrank.Option{
		asrank.WithEndpoint(c.v.GetString(endpointKey)),
		asrank.WithChunkSize(c.v.GetInt(chunkSizeKey)),
		asrank.WithRetry(c.v.GetInt(retryMaxKey), time.Second, 30*time.Second),
	}
	if date := c.v.GetString(dateKey); date != "" {
		t, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", date, err)
		}
		opts = append(opts, asrank.WithTime(t))
	}
	if qps := c.v.GetFloat64(qpsKey); qps > 0 {
		opts = append(opts, asrank.WithRateLimit(rate.Limit(qps), 1))
	}
	return asrank.New(ctx, opts...)
}
