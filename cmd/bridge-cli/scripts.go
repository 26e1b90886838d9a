package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/govm-net/ffibridge/repository"
	"github.com/govm-net/ffibridge/scripts"
	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

var (
	inspect   bool
	exportDir string
)

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "List the allowed transaction scripts",
	Long: `List the allowed transaction scripts as hex-encoded JSON.
Example: bridge-cli scripts --inspect
Example: bridge-cli scripts --export ./scripts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := newBridge()
		if err != nil {
			return err
		}
		data, err := collect("get_allowed_scripts", b.GetAllowedScripts)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, string(data))
		if exportDir != "" {
			if err := exportScripts(out, exportDir); err != nil {
				return err
			}
		}
		if !inspect {
			return nil
		}
		for _, tmpl := range scripts.All() {
			if err := inspectTemplate(cmd.Context(), out, tmpl); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	scriptsCmd.Flags().BoolVarP(&inspect, "inspect", "i", false, "Compile each script and print its imports and exports")
	scriptsCmd.Flags().StringVarP(&exportDir, "export", "e", "", "Write each script and its metadata under this directory")
}

func exportScripts(w io.Writer, dir string) error {
	manager, err := repository.NewManager(dir)
	if err != nil {
		return err
	}
	exported, err := manager.ExportAll()
	if err != nil {
		return err
	}
	for _, code := range exported {
		fmt.Fprintf(w, "Exported %s (%x)\n", code.Name, code.Hash)
	}
	return nil
}

func inspectTemplate(ctx context.Context, w io.Writer, tmpl scripts.Template) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, tmpl.Code())
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", tmpl.Name, err)
	}

	fmt.Fprintf(w, "\n%s (%d bytes)\n", tmpl.Name, len(tmpl.Code()))
	fmt.Fprintln(w, "  imports:")
	for _, def := range compiled.ImportedFunctions() {
		module, name, _ := def.Import()
		fmt.Fprintf(w, "    - %s.%s%s\n", module, name, signature(def))
	}
	for _, def := range compiled.ImportedMemories() {
		module, name, _ := def.Import()
		fmt.Fprintf(w, "    - %s.%s: memory (min %d pages)\n", module, name, def.Min())
	}

	fmt.Fprintln(w, "  exports:")
	exports := compiled.ExportedFunctions()
	names := make([]string, 0, len(exports))
	for name := range exports {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "    - %s%s\n", name, signature(exports[name]))
	}
	return nil
}

func signature(def api.FunctionDefinition) string {
	return "(" + valueTypes(def.ParamTypes()) + ") -> (" + valueTypes(def.ResultTypes()) + ")"
}

func valueTypes(types []api.ValueType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = api.ValueTypeName(t)
	}
	return strings.Join(names, ", ")
}
