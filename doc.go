// Package opts is a declarative command-line argument parser built around
// option prototype strings. A prototype such as "n|name=" declares the
// aliases an option is reachable under and whether it takes no value ("v"),
// an optional value ("level:") or a required one ("name="); multi-value
// options split a single token on configurable separators ("D=" accepting
// -Dkey=value).
//
// The matching engine supports hierarchical sub-commands, single-dash option
// bundling (-ABC), the "--", "-" and "/" prefix styles, boolean negation
// ("-x+"/"-x-"), raw mode after "--", a "<>" catch-all option collecting
// unmatched tokens, and pluggable argument sources such as @file response
// files. Help text is generated from the registered declaration order.
//
// Commands and option sets are built during a single-threaded setup phase and
// are read-only during parsing; setup mistakes (malformed prototypes,
// duplicate aliases) panic with a *ProgrammingError, while user input errors
// are returned as *OptionError values.
package opts
