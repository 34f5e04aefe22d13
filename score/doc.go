// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package score derives normalized display scores from ranked list positions.

Scores are never stored. They are recomputed from the current position and list
size, so they stay consistent after any reorder:

	s, err := score.DeriveScore(1, 10, models.SentimentNone) // 10.0
	score.FormatScore(s)                                    // "10.0"

# Formula

For total > 1 the score is linear in position:

	score = 10 * (total - position) / (total - 1)

A single ranked item scores 10.0.

# Sentiment

A favored tag adds SentimentBias * step and a disfavored tag subtracts it,
where step is the gap between two adjacent positions. Results are clamped to
[0, 10]. A bias below 0.5 guarantees that a higher position always scores
strictly more than a lower one, tagged or not.

# Display Gate

Unlocked and Remaining implement the "rank N more to unlock scores" policy.
They are caller-side helpers and do not affect Derive.
*/
package score
