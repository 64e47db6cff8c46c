package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/mmrzaf/datadash/internal/domain"
	"github.com/mmrzaf/datadash/internal/infra/repos/presets"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func presetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage presets",
	}

	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := presets.NewFileRepository(presetsDir).List()
			if err != nil {
				return err
			}

			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tKIND\tPARAMS\tSEED")
			for _, p := range list {
				seed := "-"
				if p.Seed != nil {
					seed = fmt.Sprint(*p.Seed)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Kind, formatParams(p.Params), seed)
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show preset details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, err := presets.NewFileRepository(presetsDir).Get(args[0])
			if err != nil {
				return err
			}

			data, _ := yaml.Marshal(preset)
			fmt.Print(string(data))
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate [id|path]",
		Short: "Validate one preset, or every preset when no argument is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService()
			if err != nil {
				return err
			}
			defer closeFn()

			if len(args) == 0 {
				failures, total, err := svc.ValidatePresets()
				if err != nil {
					return err
				}
				ids := make([]string, 0, len(failures))
				for id := range failures {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					fmt.Printf("%s: %v\n", id, failures[id])
				}
				if len(failures) > 0 {
					return fmt.Errorf("%d of %d presets are invalid", len(failures), total)
				}
				fmt.Printf("All %d presets are valid\n", total)
				return nil
			}

			repo := presets.NewFileRepository(presetsDir)
			var preset *domain.Preset
			if strings.Contains(args[0], "/") || isPresetPath(args[0]) {
				preset, err = repo.GetByPath(args[0])
			} else {
				preset, err = repo.Get(args[0])
			}
			if err != nil {
				return err
			}

			if err := svc.ValidatePreset(preset); err != nil {
				fmt.Printf("Validation failed: %v\n", err)
				return err
			}
			fmt.Printf("Preset '%s' is valid\n", preset.Name)
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, validateCmd)
	return cmd
}

func isPresetPath(s string) bool {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		if strings.HasSuffix(s, ext) {
			return true
		}
	}
	return false
}

func sinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sink",
		Short: "Manage sinks",
	}

	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sinks",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService()
			if err != nil {
				return err
			}
			defer closeFn()

			list, err := svc.ListSinks()
			if err != nil {
				return err
			}

			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tKIND\tDSN")
			for _, s := range list {
				dsn := s.DSN
				if len(dsn) > 50 {
					dsn = dsn[:47] + "..."
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Kind, dsn)
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show sink details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService()
			if err != nil {
				return err
			}
			defer closeFn()

			sink, err := svc.GetSink(args[0])
			if err != nil {
				return err
			}
			data, _ := yaml.Marshal(sink)
			fmt.Print(string(data))
			return nil
		},
	}

	testCmd := &cobra.Command{
		Use:   "test <id>",
		Short: "Check connectivity and permissions of a sink",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService()
			if err != nil {
				return err
			}
			defer closeFn()

			check, err := svc.CheckSinkByID(args[0])
			if check == nil {
				return err
			}
			data, _ := yaml.Marshal(check)
			fmt.Print(string(data))
			return err
		},
	}

	cmd.AddCommand(listCmd, showCmd, testCmd)
	return cmd
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded generations",
	}

	var (
		limit  int
		kind   string
		format string
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent generations",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService()
			if err != nil {
				return err
			}
			defer closeFn()

			list, err := svc.ListHistory(limit, kind)
			if err != nil {
				return err
			}

			if format == "json" {
				data, _ := json.MarshalIndent(list, "", "  ")
				fmt.Println(string(data))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tPRESET\tSEED\tROWS\tCREATED")
			for _, r := range list {
				preset := r.PresetID
				if preset == "" {
					preset = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					r.ID, r.Kind, preset, r.Seed, r.Rows, r.CreatedAt.Format("2006-01-02 15:04"))
			}
			w.Flush()
			return nil
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Limit results")
	listCmd.Flags().StringVar(&kind, "kind", "", "Filter by dataset kind")
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <record_id>",
		Short: "Show a recorded generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := newService()
			if err != nil {
				return err
			}
			defer closeFn()

			rec, err := svc.GetHistory(args[0])
			if err != nil {
				return err
			}
			data, _ := json.MarshalIndent(rec, "", "  ")
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}
