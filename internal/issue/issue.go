// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	ManifestCycleId
	CopySourceMissingId
	CopyFailedId
	ConfigLoadFailedId
	InvalidTargetId
	DepsRepoFetchFailedId
	CommitStampFailedId
)

type (
	// MarkdownMsg is Markdown text rendered with glamour.
	MarkdownMsg string

	// HttpLink is a documentation or reference URL.
	HttpLink string

	// Issue is a catalog entry with long-form guidance for one failure class.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the entry with the named glamour style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- " + string(link) + "\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- " + string(link) + "\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# Manifest not found

A manifest name could not be located. Resolution continued without it, so the
copy list may be incomplete.

## Candidates checked (in order)
1. ` + "`<name>.txt`" + `
2. ` + "`<name>-<system>-<platform>.txt`" + ` (` + "`<name>-<system>.txt`" + ` when the platform is empty)
3. ` + "`<name>-generic.txt`" + `

## Things you can try
- Check the spelling of the name (no ` + "`.txt`" + ` extension)
- Names inside a ` + "`!deplist`" + ` are relative to the directory of that list
- Run with ` + "`--verbose`" + ` to see every candidate path`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Manifest could not be parsed

The first non-comment line must be ` + "`!deplist`" + ` or ` + "`!depscript`" + `.
Every script line must look like:

~~~
system:architecture:configuration~source=destination
~~~

Condition fields may be empty (matching anything) and the destination may be
omitted (it defaults to the source). Comments start with ` + "`//`" + `.

## Things you can try
- Make sure each entry has exactly one ` + "`~`" + ` and two ` + "`:`" + ` before it
- Remove extra ` + "`=`" + ` characters from the expression`,
	}

	manifestCycleIssue = &Issue{
		id: ManifestCycleId,
		mdMsg: `
# Manifest include cycle

A ` + "`!deplist`" + ` manifest includes itself, directly or through other lists.
Resolution stopped because it would never finish.

## Things you can try
- Run ` + "`depscript graph <name>`" + ` to see the include tree
- Move shared entries into a separate script that both lists include`,
	}

	copySourceMissingIssue = &Issue{
		id: CopySourceMissingId,
		mdMsg: `
# Dependency source missing

An entry matched the target but its source path does not exist under the
project root. The entry was skipped.

## Things you can try
- Fetch the dependency repository with ` + "`depscript pull`" + `
- Check that macros such as ` + "`$GENARCH$`" + ` expand to the expected path`,
	}

	copyFailedIssue = &Issue{
		id: CopyFailedId,
		mdMsg: `
# Copy failed

A dependency could not be written to the output directory.

## Things you can try
- Check that the output directory is writable
- Close programs that hold the destination file open`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file could not be loaded. Defaults will be used instead.

## Things you can try
- Check the CUE syntax of ` + "`depscript.cue`" + `
- Print the effective configuration:
~~~
$ depscript config show
~~~`,
	}

	invalidTargetIssue = &Issue{
		id: InvalidTargetId,
		mdMsg: `
# Invalid target

The system, architecture and configuration must be non-empty and may not
contain whitespace or the manifest separators ` + "`~ : =`" + `.

## Things you can try
- Pass them explicitly: ` + "`-s linux -a x86_64 -c Debug`" + ``,
	}

	depsRepoFetchFailedIssue = &Issue{
		id: DepsRepoFetchFailedId,
		mdMsg: `
# Dependency repository fetch failed

The ` + "`deps-<kind>`" + ` repository could not be cloned or updated.

## Things you can try
- Set ` + "`deps.base_url`" + ` in ` + "`depscript.cue`" + ` or pass ` + "`--base-url`" + `
- For private repositories export ` + "`GIT_TOKEN`" + ` or add an SSH key to ~/.ssh/
- Re-clone from scratch with ` + "`depscript pull --clean`" + ``,
	}

	commitStampFailedIssue = &Issue{
		id: CommitStampFailedId,
		mdMsg: `
# Commit stamp failed

The current commit could not be read from the project repository.

## Things you can try
- Run the command inside a git checkout
- Make sure the repository has at least one commit`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():    manifestNotFoundIssue,
		manifestParseErrorIssue.Id():  manifestParseErrorIssue,
		manifestCycleIssue.Id():       manifestCycleIssue,
		copySourceMissingIssue.Id():   copySourceMissingIssue,
		copyFailedIssue.Id():          copyFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		invalidTargetIssue.Id():       invalidTargetIssue,
		depsRepoFetchFailedIssue.Id(): depsRepoFetchFailedIssue,
		commitStampFailedIssue.Id():   commitStampFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
