package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/mmrzaf/datadash/internal/app"
	"github.com/mmrzaf/datadash/internal/charts"
	"github.com/mmrzaf/datadash/internal/generators"
	"github.com/mmrzaf/datadash/internal/registry"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func kindsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List dataset kinds",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.DefaultGeneratorRegistry()
			if format == "json" {
				var out []map[string]any
				for _, k := range reg.List() {
					gen, _ := reg.Get(k)
					out = append(out, map[string]any{"kind": k, "info": gen.Info()})
				}
				data, _ := json.MarshalIndent(out, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tCOLUMNS\tDEFAULTS\tDESCRIPTION")
			for _, k := range reg.List() {
				gen, _ := reg.Get(k)
				info := gen.Info()
				cols := make([]string, 0, len(info.Columns))
				for _, c := range info.Columns {
					cols = append(cols, c.Name)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", k, strings.Join(cols, ","), formatParams(info.Defaults), info.Description)
			}
			w.Flush()
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")
	return cmd
}

func formatParams(p generators.Params) string {
	if len(p) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, p[k]))
	}
	return strings.Join(parts, " ")
}

func generateCmd() *cobra.Command {
	var (
		rf     requestFlags
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "generate [kind]",
		Short: "Generate a dataset and write it as CSV or JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.request(cmd, kindArg(args))
			if err != nil {
				return err
			}
			exportFormat, err := app.ParseExportFormat(format)
			if err != nil {
				return err
			}
			svc, closeFn, err := newService()
			if err != nil {
				return err
			}
			defer closeFn()

			d, err := svc.Export(req, exportFormat)
			if err != nil {
				return err
			}
			if err := writeOutput(output, d.Data); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "%d rows, seed %d\n", d.Result.Table.NumRows(), d.Result.Seed)
			return nil
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format (csv|json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func statsCmd() *cobra.Command {
	var (
		rf     requestFlags
		format string
	)
	cmd := &cobra.Command{
		Use:   "stats [kind]",
		Short: "Summarize the numeric columns of a generated dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.request(cmd, kindArg(args))
			if err != nil {
				return err
			}
			svc, closeFn, err := newService()
			if err != nil {
				return err
			}
			defer closeFn()

			st, err := svc.Describe(req)
			if err != nil {
				return err
			}
			switch format {
			case "json":
				data, _ := json.MarshalIndent(st, "", "  ")
				fmt.Println(string(data))
				return nil
			case "yaml":
				data, _ := yaml.Marshal(st)
				fmt.Print(string(data))
				return nil
			}

			names := make([]string, 0, len(st.Columns))
			for name := range st.Columns {
				names = append(names, name)
			}
			sort.Strings(names)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "COLUMN\tCOUNT\tMEAN\tSTD\tMIN\tMAX")
			for _, name := range names {
				s := st.Columns[name]
				fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\n", name, s.Count, s.Mean, s.Std, s.Min, s.Max)
			}
			w.Flush()
			if st.Correlation != nil {
				fmt.Printf("x/y correlation: %.4f\n", *st.Correlation)
			}
			fmt.Printf("rows: %d, seed: %d\n", st.Rows, st.Seed)
			return nil
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table|json|yaml)")
	return cmd
}

func chartCmd() *cobra.Command {
	var (
		rf     requestFlags
		format string
		output string
		opts   charts.Options
	)
	cmd := &cobra.Command{
		Use:   "chart [kind]",
		Short: "Render a generated dataset as a PNG or SVG chart",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.request(cmd, kindArg(args))
			if err != nil {
				return err
			}
			chartFormat, err := charts.ParseFormat(format)
			if err != nil {
				return err
			}
			svc, closeFn, err := newService()
			if err != nil {
				return err
			}
			defer closeFn()

			d, err := svc.Chart(req, chartFormat, opts)
			if err != nil {
				return err
			}
			if output == "" {
				output = d.Filename
			}
			if err := writeOutput(output, d.Data); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %s (seed %d)\n", output, d.Result.Seed)
			return nil
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "png", "Image format (png|svg)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default <kind>.<format>)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Chart title")
	cmd.Flags().IntVar(&opts.Width, "width", 1024, "Image width")
	cmd.Flags().IntVar(&opts.Height, "height", 400, "Image height")
	return cmd
}

func pushCmd(defaultMode string) *cobra.Command {
	var (
		rf       requestFlags
		sinkID   string
		table    string
		mode     string
		database string
	)
	cmd := &cobra.Command{
		Use:   "push [kind]",
		Short: "Generate a dataset and write it into a configured sink",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := rf.request(cmd, kindArg(args))
			if err != nil {
				return err
			}
			if table == "" {
				table = req.Kind
				if table == "" {
					table = req.PresetID
				}
			}
			svc, closeFn, err := newService()
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := svc.Push(&app.PushRequest{
				Dataset:  *req,
				SinkID:   sinkID,
				Table:    table,
				Mode:     mode,
				Database: database,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Pushed %d rows into %s.%s in %d batches (%.2fs, seed %d)\n",
				res.Stats.RowsWritten, res.Stats.SinkID, res.Stats.Table, res.Stats.Batches,
				res.Stats.DurationSeconds, res.Seed)
			return nil
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVar(&sinkID, "sink", "", "Sink id or name")
	cmd.Flags().StringVar(&table, "table", "", "Destination table or index (default: the kind)")
	cmd.Flags().StringVar(&mode, "mode", defaultMode, "Table mode (create_if_missing|truncate_then_insert|append_only)")
	cmd.Flags().StringVar(&database, "database", "", "Override the database of a postgres sink")
	_ = cmd.MarkFlagRequired("sink")
	return cmd
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
