// Inkfeed - Content Platform Recommendation Engine
// Copyright 2026 Inkfeed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/inkfeed/inkfeed

package recommend

import (
	"context"
	"fmt"
	"sort"
)

// findPeers selects up to Peers.MaxPeers other users with reading
// history most similar to the given user, measured as Jaccard overlap
// of read-article-id sets. Candidates come from a bounded page
// (Peers.ScanLimit) of recently active users, never including the
// requesting user. Users with zero overlap rank last, so a reader with
// no history still gets a peer set drawn from the most active users.
// Ties break by user id ascending for reproducibility.
func (e *Engine) findPeers(ctx context.Context, userID int64) ([]int64, error) {
	ownIDs, err := e.source.GetReadArticleIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get read article ids: %w", err)
	}

	ownSet := make(map[int64]struct{}, len(ownIDs))
	for _, id := range ownIDs {
		ownSet[id] = struct{}{}
	}

	candidates, err := e.source.ListPeerCandidates(ctx, userID, e.cfg.Peers.ScanLimit)
	if err != nil {
		return nil, fmt.Errorf("list peer candidates: %w", err)
	}

	type rankedPeer struct {
		id      int64
		overlap float64
	}

	ranked := make([]rankedPeer, 0, len(candidates))
	for _, peerID := range candidates {
		if peerID == userID {
			continue
		}

		peerIDs, err := e.source.GetReadArticleIDs(ctx, peerID)
		if err != nil {
			return nil, fmt.Errorf("get peer read article ids: %w", err)
		}

		peerSet := make(map[int64]struct{}, len(peerIDs))
		for _, id := range peerIDs {
			peerSet[id] = struct{}{}
		}

		ranked = append(ranked, rankedPeer{id: peerID, overlap: overlapIDs(ownSet, peerSet)})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].overlap != ranked[j].overlap {
			return ranked[i].overlap > ranked[j].overlap
		}
		return ranked[i].id < ranked[j].id
	})

	if len(ranked) > e.cfg.Peers.MaxPeers {
		ranked = ranked[:e.cfg.Peers.MaxPeers]
	}

	peers := make([]int64, len(ranked))
	for i, p := range ranked {
		peers[i] = p.id
	}
	return peers, nil
}

// collaborativeCandidates collects the article pool backed by strong
// peer engagement. An article enters the pool when any single peer
// clap exceeds Peers.StrongClapThreshold; its score input is the total
// clap magnitude across all peers, weak claps included. The returned
// order slice preserves first-qualification order so equal scores rank
// deterministically downstream.
func (e *Engine) collaborativeCandidates(ctx context.Context, peers []int64) (order []int64, totals map[int64]int, err error) {
	totals = make(map[int64]int)
	qualified := make(map[int64]struct{})

	for _, peerID := range peers {
		claps, err := e.source.GetClapsByUser(ctx, peerID)
		if err != nil {
			return nil, nil, fmt.Errorf("get peer claps: %w", err)
		}

		for _, clap := range claps {
			totals[clap.ArticleID] += clap.Count
			if clap.Count > e.cfg.Peers.StrongClapThreshold {
				if _, ok := qualified[clap.ArticleID]; !ok {
					qualified[clap.ArticleID] = struct{}{}
					order = append(order, clap.ArticleID)
				}
			}
		}
	}

	// Drop totals for articles that never crossed the threshold.
	for id := range totals {
		if _, ok := qualified[id]; !ok {
			delete(totals, id)
		}
	}

	return order, totals, nil
}
