// Package selfcorrect finds same-prefix expansions: a speaker starts a phrase,
// abandons it, and restarts with the same opening words before continuing
// further ("我们下周 / 我们下周去北京"). The abandoned attempt is proposed for
// deletion.
//
// Candidates pass through a chain of pure filters that reject parallel
// structures, lists and verbatim repeats, which share a prefix on purpose.
package selfcorrect
