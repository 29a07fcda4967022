// Package main provides the CLI entry point for gridcalc.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/formula"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/server"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/store"
	"go.alis.build/alog"
)

var (
	configPath string
	verbose    bool
	columns    int
	rows       int
	locale     string
	recalcMode string

	assignments []string
	outputPath  string
	sheetName   string
	pretty      bool
	dbPath      string
	listenAddr  string
	origins     []string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridcalc",
		Short: "Evaluate and recalculate spreadsheets",
		Long: `gridcalc evaluates spreadsheet formulas, recalculates sheets stored as
JSON or Excel files, keeps saved sheets in SQLite and serves a websocket
backend for a browser grid.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				alog.SetLevel(alog.LevelDebug)
			} else {
				alog.SetLevel(alog.LevelWarning)
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML options file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.IntVar(&columns, "columns", 0, "Grid width in columns (overrides config)")
	pf.IntVar(&rows, "rows", 0, "Grid height in rows (overrides config)")
	pf.StringVar(&locale, "locale", "", "Number formatting locale (overrides config)")
	pf.StringVar(&recalcMode, "recalc", "", "Recalculation mode: dependents, all (overrides config)")

	evalCmd := &cobra.Command{
		Use:   "eval FORMULA",
		Short: "Evaluate a single formula",
		Args:  cobra.ExactArgs(1),
		RunE:  runEval,
	}
	evalCmd.Flags().StringArrayVar(&assignments, "set", nil, "Cell input as ADDRESS=INPUT (repeatable)")

	recalcCmd := &cobra.Command{
		Use:   "recalc INPUT",
		Short: "Recalculate a .json or .xlsx sheet",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecalc,
	}
	recalcCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file, .json or .xlsx (default: JSON to stdout)")
	recalcCmd.Flags().StringVar(&sheetName, "sheet", "", "Excel sheet to read (default: first sheet)")
	recalcCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	saveCmd := &cobra.Command{
		Use:   "save NAME INPUT",
		Short: "Store a .json or .xlsx sheet in the database",
		Args:  cobra.ExactArgs(2),
		RunE:  runSave,
	}
	saveCmd.Flags().StringVar(&sheetName, "sheet", "", "Excel sheet to read (default: first sheet)")

	loadCmd := &cobra.Command{
		Use:   "load ID",
		Short: "Write a saved sheet as JSON or Excel",
		Args:  cobra.ExactArgs(1),
		RunE:  runLoad,
	}
	loadCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file, .json or .xlsx (default: JSON to stdout)")
	loadCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved sheets, newest first",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the websocket backend",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringSliceVar(&origins, "origin", nil, "Allowed websocket origin (repeatable, default: any)")

	for _, cmd := range []*cobra.Command{saveCmd, loadCmd, listCmd, serveCmd} {
		cmd.Flags().StringVar(&dbPath, "db", "gridcalc.db", "SQLite database of saved sheets")
	}

	rootCmd.AddCommand(evalCmd, recalcCmd, saveCmd, loadCmd, listCmd, serveCmd)
	return rootCmd
}

// loadOptions reads --config when given and applies the flags set on the
// command line on top of it.
func loadOptions(flags *pflag.FlagSet) (gridcalc.Options, error) {
	opts := gridcalc.DefaultOptions()
	if configPath != "" {
		var err error
		if opts, err = gridcalc.LoadOptions(configPath); err != nil {
			return gridcalc.Options{}, err
		}
	}

	if flags.Changed("columns") {
		opts.Columns = columns
	}
	if flags.Changed("rows") {
		opts.Rows = rows
	}
	if flags.Changed("locale") {
		opts.Locale = locale
	}
	if flags.Changed("recalc") {
		opts.Recalc = gridcalc.RecalcMode(recalcMode)
	}
	return opts, opts.Validate()
}

func runEval(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd.Flags())
	if err != nil {
		return err
	}
	wb, err := gridcalc.New(opts)
	if err != nil {
		return err
	}

	for _, a := range assignments {
		addr, input, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q (want ADDRESS=INPUT)", a)
		}
		if _, err := wb.SetCell(addr, input); err != nil {
			return err
		}
	}

	text := args[0]
	if !strings.HasPrefix(text, "=") {
		text = "=" + text
	}
	v := formula.Evaluate(text, wb.Sheet())
	fmt.Fprintln(cmd.OutOrStdout(), wb.Formatter().Format(v))
	return nil
}

func runRecalc(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd.Flags())
	if err != nil {
		return err
	}
	wb, name, err := readWorkbook(args[0], sheetName, opts)
	if err != nil {
		return err
	}
	return writeWorkbook(cmd.OutOrStdout(), outputPath, name, wb.Sheet(), wb.Layout())
}

func runSave(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd.Flags())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	s, err := store.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	wb, _, err := readWorkbook(args[1], sheetName, opts)
	if err != nil {
		return err
	}
	wb.SetStore(s)
	saved, err := wb.SaveSheet(ctx, args[0])
	if err != nil {
		return fmt.Errorf("save failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
	return nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd.Flags())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	s, err := store.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	wb, err := gridcalc.New(opts)
	if err != nil {
		return err
	}
	saved, err := s.Load(ctx, args[0])
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	wb.ReplaceCells(saved.Cells)
	return writeWorkbook(cmd.OutOrStdout(), outputPath, saved.Name, wb.Sheet(), wb.Layout())
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := store.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	sheets, err := s.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSAVED")
	for _, sh := range sheets {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", sh.ID, sh.Name, sh.SavedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func runServe(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd.Flags())
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := store.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	mux := http.NewServeMux()
	mux.Handle("/ws", server.NewHandler(opts, s, origins))
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		alog.Infof(ctx, "listening on %s", listenAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	alog.Infof(shutdownCtx, "shutting down")
	return srv.Shutdown(shutdownCtx)
}
