/*
Package builder constructs a workflow.Graph from the format-agnostic
definition model produced by the loaders (see package config).

The construction is a multi-phase process:

 1. Node Creation: every unit and workflow declaration becomes a node of the
    graph. Units and workflows share one namespace; a name declared twice is a
    conflict. Argument records are attached to their unit in declaration order.

 2. Membership: each workflow's `nodes` list is resolved and the referenced
    units and workflows are added to it. Unknown names are not-found errors.

 3. Dependency Linking: `depends_on` entries become parent edges on the
    declaring node.

Every phase collects all problems it finds before returning, so a definition
with several mistakes reports them together. Acyclicity is checked when a
workflow is compiled, where the edges that matter are known.
*/
package builder
