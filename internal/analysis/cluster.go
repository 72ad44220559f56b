package analysis

import (
	"github.com/shopspring/decimal"

	"finsight/internal/core"
)

// Cluster is a group of transactions treated as the same recurring charge.
// The representative is the amount of the first member; membership is
// decided against it, never against the cluster mean.
type Cluster struct {
	Representative decimal.Decimal
	Members        []core.Transaction
}

// ClusterByAmount partitions transactions into amount-similarity clusters
// with a single greedy pass. Each transaction joins the first existing
// cluster whose representative it matches within the relative tolerance,
// otherwise it opens a new cluster. The pass is order-preserving: for a
// fixed input order the partition is always the same.
//
// This is deliberately not a globally optimal clustering. Nearest-cluster
// or running-mean matching would regroup historical data and change which
// charges read as recurring.
func ClusterByAmount(txs []core.Transaction, tolerance decimal.Decimal) []Cluster {
	var clusters []Cluster
	for _, tx := range txs {
		placed := false
		for i := range clusters {
			if withinTolerance(tx.Amount, clusters[i].Representative, tolerance) {
				clusters[i].Members = append(clusters[i].Members, tx)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, Cluster{
				Representative: tx.Amount,
				Members:        []core.Transaction{tx},
			})
		}
	}
	return clusters
}

// withinTolerance reports whether |amount - rep| / rep <= tolerance.
// A zero representative only absorbs zero amounts; the ratio is undefined
// there and must not divide.
func withinTolerance(amount, rep, tolerance decimal.Decimal) bool {
	if rep.IsZero() {
		return amount.IsZero()
	}
	return amount.Sub(rep).Abs().Div(rep).LessThanOrEqual(tolerance)
}

// LargestCluster returns the first cluster of maximal size. Ties keep the
// earliest-formed cluster, so selection is stable for a fixed input order.
func LargestCluster(clusters []Cluster) (Cluster, bool) {
	if len(clusters) == 0 {
		return Cluster{}, false
	}
	best := clusters[0]
	for _, c := range clusters[1:] {
		if len(c.Members) > len(best.Members) {
			best = c
		}
	}
	return best, true
}
