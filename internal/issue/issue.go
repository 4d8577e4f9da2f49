// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	ComponentNotDeclaredId
	MissingModuleRecordId
	DependencyCycleId
	BinaryInspectionFailedId
	PackagerNotFoundId
	EmissionFailedId
	ProbeFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty
	extLinks []HttpLink  // external links that might be useful for the user
}

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

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The packager configuration could not be read or did not validate against the schema.

## Things you can try:
- Print the effective configuration:
~~~
$ spp config show
~~~
- Write a fresh default file and edit it:
~~~
$ spp config init
~~~`,
		docLinks: []HttpLink{"https://static-php.dev/en/guide/packages.html"},
	}

	componentNotDeclaredIssue = &Issue{
		id: ComponentNotDeclaredId,
		mdMsg: `
# Component not declared in the build configuration!

Only front-ends listed under ` + "`sapi`" + ` and modules listed under
` + "`shared-extensions`" + ` in craft.yml can be packaged.

## Things you can try:
- Check which components are known:
~~~
$ spp resolve --all
~~~
- Add the module to ` + "`shared-extensions`" + ` and rebuild.`,
		docLinks: []HttpLink{"https://static-php.dev/en/guide/cli-generator.html"},
	}

	missingModuleRecordIssue = &Issue{
		id: MissingModuleRecordId,
		mdMsg: `
# No metadata for the module being packaged!

The extension catalog has no record for this module, so its dependencies and kind are unknown.

## Things you can try:
- Point ` + "`paths.catalog`" + ` at the ext.json shipped with your static-php-cli checkout.
- Make sure the module name matches the catalog key exactly.`,
		docLinks: []HttpLink{"https://static-php.dev/en/develop/source-module.html"},
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle between shared modules!

Two or more shared modules depend on each other, so no ini load order can satisfy both.

## Things you can try:
- Inspect the closure:
~~~
$ spp resolve <module>
~~~
- Build one side of the cycle statically.`,
		docLinks: []HttpLink{"https://static-php.dev/en/guide/extensions.html"},
	}

	binaryInspectionFailedIssue = &Issue{
		id: BinaryInspectionFailedId,
		mdMsg: `
# Could not inspect the runtime binary!

` + "`ldd -v`" + ` failed, so library version constraints cannot be computed. No package was built.

## Things you can try:
- Check that the binary exists and is dynamically linked:
~~~
$ spp libs
~~~
- Set ` + "`tools.ldd`" + ` if ldd lives outside PATH.`,
		docLinks: []HttpLink{"https://man7.org/linux/man-pages/man1/ldd.1.html"},
	}

	packagerNotFoundIssue = &Issue{
		id: PackagerNotFoundId,
		mdMsg: `
# fpm is not installed!

Packages are produced by the fpm packaging tool, which could not be started.

## Things you can try:
~~~
$ gem install fpm
~~~
- Or set ` + "`tools.fpm`" + ` to the full path of the executable.`,
		docLinks: []HttpLink{"https://fpm.readthedocs.io/en/latest/installation.html"},
	}

	emissionFailedIssue = &Issue{
		id: EmissionFailedId,
		mdMsg: `
# Some packages failed to build!

fpm exited with an error for at least one component and format. The other formats
and components were still attempted; see the run summary above.

## Things you can try:
- Re-run a single component with verbose output:
~~~
$ spp package <component> --verbose
~~~`,
		docLinks: []HttpLink{"https://fpm.readthedocs.io/en/latest/cli-reference.html"},
	}

	probeFailedIssue = &Issue{
		id: ProbeFailedId,
		mdMsg: `
# Could not query the built runtime!

The php binary did not report a version for the runtime or for a module.

## Things you can try:
- Set ` + "`php_version`" + ` explicitly in the configuration.
- Check the module loads: ` + "`php -n -d extension=<name> -m`" + `.`,
		docLinks: []HttpLink{"https://static-php.dev/en/guide/troubleshooting.html"},
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		componentNotDeclaredIssue.Id():   componentNotDeclaredIssue,
		missingModuleRecordIssue.Id():    missingModuleRecordIssue,
		dependencyCycleIssue.Id():        dependencyCycleIssue,
		binaryInspectionFailedIssue.Id(): binaryInspectionFailedIssue,
		packagerNotFoundIssue.Id():       packagerNotFoundIssue,
		emissionFailedIssue.Id():         emissionFailedIssue,
		probeFailedIssue.Id():            probeFailedIssue,
	}
)

// Values returns every registered issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
