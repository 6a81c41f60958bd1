// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package recommend

// ContentSimilarity computes the Jaccard index of two tag-name sets:
// |a ∩ b| / |a ∪ b|. The result is in [0, 1] and symmetric. Two
// untagged articles are defined to score 0.0, never NaN.
func ContentSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	setA := tagSet(a)
	setB := tagSet(b)

	intersection := 0
	for tag := range setA {
		if _, ok := setB[tag]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// tagSet converts a tag slice to a set. Tag names arrive deduplicated
// and case-normalized, but building a set keeps repeated names from
// inflating counts.
func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

// overlapIDs computes the Jaccard index of two article-id sets. Used
// for ranking peer readers by shared reading history.
func overlapIDs(a, b map[int64]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for id := range a {
		if _, ok := b[id]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
