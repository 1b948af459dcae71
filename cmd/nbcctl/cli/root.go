// Package cli implements nbcctl, a command line view client for a NoobCash node.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/Adda-Baaj/noobcash-web/internal/domain"
	"github.com/Adda-Baaj/noobcash-web/internal/logger"
	"github.com/Adda-Baaj/noobcash-web/internal/wallet"
	"github.com/Adda-Baaj/noobcash-web/pkg/httpclient"
)

type options struct {
	node     string
	sender   string
	fallback float64
	verbose  bool
}

// NewRootCmd builds the nbcctl command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{})
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "nbcctl",
		Short:         "Query a NoobCash node and send transactions",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.node, "node", "n", "http://localhost:58080", "Base URL of the node.")
	root.PersistentFlags().StringVarP(&opts.sender, "sender", "s", "id0", "Wallet id to act as.")
	root.PersistentFlags().Float64Var(&opts.fallback, "fallback-balance", 55, "Balance shown when the node cannot answer.")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log node calls to stderr.")

	root.AddCommand(newBalanceCmd(opts), newHistoryCmd(opts), newSendCmd(opts))
	return root
}

// client builds a view client from the parsed flags.
func (o *options) client() (*wallet.Client, error) {
	var log logger.Logger = logger.NopLogger{}
	if o.verbose {
		log = logger.New("debug", zapcore.Lock(os.Stderr))
	}

	return wallet.New(wallet.Config{
		BaseURL:         o.node,
		SenderID:        o.sender,
		FallbackBalance: domain.Amount(o.fallback),
	}, httpclient.NewRestyClient(0), log)
}
