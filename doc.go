/*
Package aeon provides time-series machine learning for Go: elastic distances
(DTW, MSM, TWE), elastic k-means clustering with barycenter averaging,
k-medoids clustering, and exact similarity search over series collections.

# Overview

Time series resist ordinary vector techniques because two series can trace
the same shape at slightly different speeds. Elastic distances solve this by
optimizing an alignment between timepoints before measuring dissimilarity,
and everything in this package - clustering, averaging, search - is built on
top of that capability.

# Quick Start

Cluster a collection of series with elastic k-means:

	package main

	import (
	    "fmt"
	    "log"

	    "github.com/aeontoolkit/aeon"
	)

	func main() {
	    X := []aeon.Series{
	        aeon.UnivariateSeries([]float64{1, 2, 3, 4, 5}),
	        aeon.UnivariateSeries([]float64{1, 2, 4, 4, 5}),
	        aeon.UnivariateSeries([]float64{9, 8, 7, 6, 5}),
	        aeon.UnivariateSeries([]float64{9, 8, 6, 6, 5}),
	    }

	    cfg := aeon.DefaultKESBAConfig()
	    cfg.Distance = aeon.DTW
	    cfg.RandomState = 1

	    km, err := aeon.NewKESBA(2, cfg)
	    if err != nil {
	        log.Fatal(err)
	    }
	    if err := km.Fit(X); err != nil {
	        log.Fatal(err)
	    }
	    fmt.Println(km.Labels(), km.Inertia())
	}

# Elastic Distances

Five built-in distances are available through NewElasticDistance, all
supporting multivariate series and a Sakoe-Chiba warping window:

Euclidean / Squared: fixed-index comparison, the degenerate alignment.

DTW: dynamic time warping, the classic elastic distance.

MSM: move-split-merge, a true metric (the default for clustering).

TWE: time warp edit distance with stiffness control.

Callers can also supply their own distance via FuncDistance or any
ElasticDistance implementation; the algorithms never inspect a distance's
internals.

# Clustering

KESBA (k-means with elastic similarity and barycentre averaging) is the
primary clusterer. Cluster centres are elastic barycenters refined by
stochastic subgradient descent, assignment uses triangle-inequality pruning
to skip most distance evaluations once clusters stabilize, and empty
clusters are repaired automatically.

KMedoids and CLARA cluster around actual member series instead of synthetic
averages: KMedoids on the full pairwise matrix, CLARA on random subsamples
for large collections.

# Similarity Search

SeriesIndex performs exact nearest-neighbor search over a series collection
under any elastic distance, with optional z-normalization, candidate
filtering, distance thresholds, and quantized (float16 or int8) storage for
large reference collections.
*/
package aeon
