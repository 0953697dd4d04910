// Command rdbigen turns a MySQL CREATE TABLE dump into a generated Go
// records/DAO package pair: parse the DDL, resolve every column's Go
// type, plan each table's DAO methods, and emit the result.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/a4501150/rdbigen/internal/config"
	"github.com/a4501150/rdbigen/internal/rdbierr"
	"github.com/a4501150/rdbigen/internal/schema"
	"github.com/a4501150/rdbigen/internal/sqlparse"
	"github.com/a4501150/rdbigen/internal/writer"
)

var (
	schemaFlag string
	outputFlag string
	configFlag string
	dryRun     bool
)

var rootCmd = &cobra.Command{
	Use:   "rdbigen",
	Short: "Generate MySQL-backed Go records and DAOs from a DDL schema",
	Long:  `rdbigen reads a MySQL CREATE TABLE dump and writes a matching Go records package and DAO package for it.`,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Parse the schema and write the generated records/DAO packages",
	RunE:  runGenerate,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Parse the schema and print its tables, columns, indexes, and foreign keys",
	RunE:  runInspect,
}

func init() {
	generateCmd.Flags().StringVar(&schemaFlag, "schema", "", "path to the DDL file (overrides the config file's schema_file)")
	generateCmd.Flags().StringVar(&outputFlag, "output", "", "output directory (overrides output_structs_dir/output_dao_dir)")
	generateCmd.Flags().StringVar(&configFlag, "config", "", "path to a YAML config file")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "run the full pipeline but only list the files that would be written")

	inspectCmd.Flags().StringVar(&schemaFlag, "schema", "", "path to the DDL file")
	inspectCmd.MarkFlagRequired("schema")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(inspectCmd)

	cobra.OnInitialize(func() {
		rootCmd.SilenceUsage = true
		rootCmd.SilenceErrors = true
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(rdbierr.ExitCode(err))
	}
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if configFlag != "" {
		loaded, err := config.Load(configFlag)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Defaults()
	}

	config.ApplyFlags(cfg, config.Flags{Schema: schemaFlag, Output: outputFlag})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseSchema(path string) (*schema.Schema, error) {
	ddl, err := os.ReadFile(path)
	if err != nil {
		return nil, rdbierr.IO(path, "read schema file", err)
	}
	return sqlparse.Parse(string(ddl))
}

func runGenerate(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sch, err := parseSchema(cfg.SchemaFile)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if dryRun {
		paths, err := writer.Plan(ctx, sch, cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "would write:")
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), "  "+p)
		}
		return nil
	}

	defer func() {
		if err != nil {
			sweepTempFiles(cfg.OutputStructsDir, cfg.OutputDAODir)
		}
	}()

	err = writer.Write(ctx, sch, cfg)
	return err
}

// sweepTempFiles removes every ".tmp-*" file under each directory, a
// second cleanup pass beyond internal/writer's own in-run cleanup:
// internal/writer only knows about the temp files its own invocation
// created, so it can never clean up after a process that was killed
// outright (not just cancelled) on a previous run. Best-effort: a
// missing directory or a permission error here is not itself worth
// surfacing over the original error runGenerate is already returning.
func sweepTempFiles(dirs ...string) {
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if strings.Contains(e.Name(), ".tmp-") {
				_ = os.Remove(filepath.Join(dir, e.Name()))
			}
		}
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	sch, err := parseSchema(schemaFlag)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, t := range sch.Tables {
		fmt.Fprintf(out, "%s\n", t.Name)
		for _, c := range t.Columns {
			flags := ""
			if !c.Nullable {
				flags += " NOT NULL"
			}
			if c.AutoIncrement {
				flags += " AUTO_INCREMENT"
			}
			if c.HasDefault {
				flags += " HAS_DEFAULT"
			}
			fmt.Fprintf(out, "  %-20s %s%s\n", c.Name, c.Type.Kind(), flags)
		}
		if len(t.PrimaryKey) > 0 {
			fmt.Fprintf(out, "  PRIMARY KEY (%s)\n", joinComma(t.PrimaryKey))
		}
		for _, idx := range t.UniqueIndexes {
			fmt.Fprintf(out, "  UNIQUE INDEX %s (%s)\n", idx.Name, joinComma(idx.Columns))
		}
		for _, idx := range t.NonUniqueIndexes {
			fmt.Fprintf(out, "  INDEX %s (%s)\n", idx.Name, joinComma(idx.Columns))
		}
		for _, fk := range t.ForeignKeys {
			fmt.Fprintf(out, "  FOREIGN KEY (%s) REFERENCES %s (%s)\n", joinComma(fk.Columns), fk.ReferencedTable, joinComma(fk.ReferencedColumns))
		}
	}
	return nil
}

func joinComma(ss []string) string {
	s := ""
	for i, v := range ss {
		if i > 0 {
			s += ", "
		}
		s += v
	}
	return s
}
