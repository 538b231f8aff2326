// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ClassesDirNotFoundId Id = iota + 1
	ConfigLoadFailedId
	FilesetInvalidId
	TransformerFailedId
)

type MarkdownMsg string

type Issue struct {
	id    Id          // ID used to look up the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	classesDirNotFoundIssue = &Issue{
		id: ClassesDirNotFoundId,
		mdMsg: `
# Classes directory not found!

The configured classes directory does not exist or is not readable,
so no class files could be selected for enhancement.

## Things you can try:
- Compile your project first, so the classes directory exists
- Point 'classes_dir' at the right output directory:
~~~cue
classes_dir: "build/classes/java/main"
~~~
- Or pass it on the command line:
~~~
$ enhancer run --classes-dir target/classes
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the enhancer configuration file.

## Configuration file locations:
- Linux: ~/.config/enhancer/config.cue
- macOS: ~/Library/Application Support/enhancer/config.cue
- Windows: %APPDATA%\enhancer\config.cue
- Project-local: ./enhancer.cue

## Things you can try:
- Create a default configuration:
~~~
$ enhancer config init
~~~
- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~cue
classes_dir: "target/classes"
enable_dirty_tracking:       true
enable_lazy_initialization:  true

filesets: [
    {includes: ["org/example/model/**"]},
]
~~~`,
	}

	filesetInvalidIssue = &Issue{
		id: FilesetInvalidId,
		mdMsg: `
# Invalid fileset!

One of the configured filesets could not be resolved: its base
directory is missing or a glob pattern is malformed. Nothing has been
rewritten.

## Things you can try:
- Check every 'filesets' entry's 'dir' exists
- Check include/exclude patterns; '**' crosses directories, '*' stays
  within one:
~~~cue
filesets: [
    {
        includes: ["**/*.class"]
        excludes: ["**/generated/**"]
    },
]
~~~`,
	}

	transformerFailedIssue = &Issue{
		id: TransformerFailedId,
		mdMsg: `
# Enhancement aborted!

The bytecode transformer reported an unexpected failure. This is not a
per-class problem with your bytecode; the transformer itself is broken
or misconfigured, so the remaining classes were not processed.

## Things you can try:
- Re-run with verbose output for the full error chain:
~~~
$ enhancer --verbose run
~~~
- Check that the class files were produced by a supported compiler
- Classes already rewritten in this run keep their new bytecode;
  re-running after a fix is safe`,
	}

	issues = map[Id]*Issue{
		classesDirNotFoundIssue.Id(): classesDirNotFoundIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		filesetInvalidIssue.Id():     filesetInvalidIssue,
		transformerFailedIssue.Id():  transformerFailedIssue,
	}
)

func Values() []*Issue {
	vals := maps.Values(issues)
	slices.SortFunc(vals, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return vals
}

func Get(id Id) *Issue {
	return issues[id]
}
