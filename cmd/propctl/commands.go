// FILE: lixenwraith/property/cmd/propctl/commands.go
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/property"
)

type globalOptions struct {
	root    string
	charset string
	defines []string
	verbose bool
}

func newRootCommand(version string) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "propctl",
		Short: "Resolve typed properties from resource files, system properties and the environment",
		Long: `propctl resolves property declarations the same way an application does:
through the shared resource cache, a per-declaration cache and a typed decoder.

Example:
  propctl --root ./conf get app.properties server.port --type int --default 8080
  propctl -D app.mode=batch get --kind system property/system app.mode
  propctl --root ./conf dump app.properties`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.root, "root", "", "resource root directory for file sources (default: $PROPCTL_PROPERTY_ROOT or the working directory)")
	flags.StringVar(&opts.charset, "charset", property.UTF8.Name(), "charset of resource files")
	flags.StringArrayVarP(&opts.defines, "define", "D", nil, "system property as key=value (repeatable)")
	flags.BoolVar(&opts.verbose, "verbose", false, "log cache activity to stderr")

	rootCmd.AddCommand(newGetCommand(opts))
	rootCmd.AddCommand(newDumpCommand(opts))
	rootCmd.AddCommand(newCharsetsCommand())

	return rootCmd
}

// resourceCache builds the cache shared by one command invocation
func (o *globalOptions) resourceCache(stderr io.Writer) (*property.ResourceCache, error) {
	cs, err := property.LookupCharset(o.charset)
	if err != nil {
		return nil, err
	}

	system := property.DefaultSystemProperties()
	args := make([]string, 0, len(o.defines))
	for _, d := range o.defines {
		args = append(args, "-D"+d)
	}
	if _, err := system.LoadArgs(args); err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	root := property.WithRoot(o.root)
	if o.root == "" {
		discovery := property.DefaultRootDiscoveryOptions("propctl")
		discovery.Args = nil // cobra owns flag parsing
		root = property.WithDiscoveredRoot(discovery)
	}

	return property.NewResourceCache(
		root,
		property.WithCharset(cs),
		property.WithSystemProperties(system),
		property.WithEnviron(os.Environ),
		property.WithLogger(logger),
	), nil
}

type getOptions struct {
	kind      string
	valueType string
	policy    string
	def       string
	delimiter string
}

func newGetCommand(global *globalOptions) *cobra.Command {
	opts := &getOptions{}

	cmd := &cobra.Command{
		Use:   "get <source> <key>",
		Short: "Resolve one property through a declaration",
		Long: `Resolve one property through a declaration.

Types: string, int, bool, string-list, int-list, bool-list, string-map, int-map,
bool-map, string-map-list, int-map-list, bool-map-list. Map types treat <key> as a prefix.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := global.resourceCache(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			kind, err := property.ParseSourceKind(opts.kind)
			if err != nil {
				return err
			}
			policy, err := property.ParseCachePolicy(opts.policy)
			if err != nil {
				return err
			}

			req := request{
				rc:        rc,
				source:    property.Source{ID: args[0], Kind: kind},
				key:       args[1],
				policy:    policy,
				def:       opts.def,
				hasDef:    cmd.Flags().Changed("default"),
				delimiter: opts.delimiter,
			}
			out, err := resolveByType(req, opts.valueType)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.kind, "kind", "file", "source kind: file, system or env")
	flags.StringVarP(&opts.valueType, "type", "t", "string", "value type")
	flags.StringVar(&opts.policy, "policy", "memory", "cache policy: none, memory or refresh")
	flags.StringVar(&opts.def, "default", "", "default value, in the same syntax as the property")
	flags.StringVar(&opts.delimiter, "delimiter", property.DefaultDelimiter, "list delimiter")

	return cmd
}

func newDumpCommand(global *globalOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "dump <source>",
		Short: "Print the flat key-value mapping of a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := global.resourceCache(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			k, err := property.ParseSourceKind(kind)
			if err != nil {
				return err
			}
			m, err := rc.Fetch(property.Source{ID: args[0], Kind: k})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for key, value := range m.All() {
				if _, err := fmt.Fprintf(w, "%s=%s\n", key, value); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "file", "source kind: file, system or env")
	return cmd
}

func newCharsetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "charsets",
		Short: "List supported resource file charsets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(property.Charsets(), "\n"))
			return err
		},
	}
}

type request struct {
	rc        *property.ResourceCache
	source    property.Source
	key       string
	policy    property.CachePolicy
	def       string
	hasDef    bool
	delimiter string
}

func resolveByType(req request, valueType string) (string, error) {
	switch valueType {
	case "string":
		return resolve[string](req, property.String(), formatScalar[string])
	case "int":
		return resolve[int](req, property.Int(), formatScalar[int])
	case "bool":
		return resolve[bool](req, property.Bool(), formatScalar[bool])
	case "string-list":
		return resolve[[]string](req, property.StringList().WithDelimiter(req.delimiter), formatList[string])
	case "int-list":
		return resolve[[]int](req, property.IntList().WithDelimiter(req.delimiter), formatList[int])
	case "bool-list":
		return resolve[[]bool](req, property.BoolList().WithDelimiter(req.delimiter), formatList[bool])
	case "string-map":
		return resolve[map[string]string](req, property.StringMap(), formatMap[string])
	case "int-map":
		return resolve[map[string]int](req, property.IntMap(), formatMap[int])
	case "bool-map":
		return resolve[map[string]bool](req, property.BoolMap(), formatMap[bool])
	case "string-map-list":
		return resolve[map[string][]string](req, property.StringMapList().WithDelimiter(req.delimiter), formatMapList[string])
	case "int-map-list":
		return resolve[map[string][]int](req, property.IntMapList().WithDelimiter(req.delimiter), formatMapList[int])
	case "bool-map-list":
		return resolve[map[string][]bool](req, property.BoolMapList().WithDelimiter(req.delimiter), formatMapList[bool])
	}
	return "", fmt.Errorf("unknown value type %q", valueType)
}

// resolve declares the property and formats its value.
// The default is decoded with the same decoder from a one-entry mapping.
func resolve[T any](req request, dec property.Decoder[T], format func(T) string) (string, error) {
	var def T
	if req.hasDef {
		v, _, err := dec.Decode(property.NewFlatMapping(map[string]string{req.key: req.def}), req.key)
		if err != nil {
			return "", fmt.Errorf("invalid default: %w", err)
		}
		def = v
	}

	decl, err := property.NewBuilder[T](req.rc).
		WithSource(req.source).
		WithKey(req.key).
		WithDefault(def).
		WithDecoder(dec).
		WithPolicy(req.policy).
		Build()
	if err != nil {
		return "", err
	}

	v, err := decl.Get()
	if err != nil {
		return "", err
	}
	return format(v), nil
}

func formatScalar[T any](v T) string {
	return fmt.Sprint(v)
}

func formatList[T any](v []T) string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = fmt.Sprint(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatMap[T any](v map[string]T) string {
	lines := make([]string, 0, len(v))
	for k, e := range v {
		lines = append(lines, fmt.Sprintf("%s=%v", k, e))
	}
	slices.Sort(lines)
	return strings.Join(lines, "\n")
}

func formatMapList[T any](v map[string][]T) string {
	lines := make([]string, 0, len(v))
	for k, e := range v {
		lines = append(lines, k+"="+formatList(e))
	}
	slices.Sort(lines)
	return strings.Join(lines, "\n")
}
