package aeon

import (
	"errors"
	"testing"
)

func claraConfig() CLARAConfig {
	cfg := DefaultCLARAConfig()
	cfg.KMedoids.Distance = Euclidean
	cfg.KMedoids.RandomState = 0
	return cfg
}

func TestCLARASeparatesGroups(t *testing.T) {
	// With a collection smaller than the sample-size heuristic every
	// sampling iteration sees the full collection, so CLARA behaves like
	// repeated k-medoids with the best result kept.
	X := makeTwoGroups()
	c, err := NewCLARA(2, claraConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Fit(X); err != nil {
		t.Fatal(err)
	}

	labels := c.Labels()
	if labels[0] != labels[1] || labels[1] != labels[2] {
		t.Errorf("first group split across clusters: %v", labels)
	}
	if labels[3] != labels[4] || labels[4] != labels[5] {
		t.Errorf("second group split across clusters: %v", labels)
	}
	if labels[0] == labels[3] {
		t.Errorf("groups merged into one cluster: %v", labels)
	}
	if len(c.ClusterCenters()) != 2 {
		t.Fatalf("got %d centres, want 2", len(c.ClusterCenters()))
	}
	if c.Inertia() < 0 {
		t.Errorf("negative inertia %v", c.Inertia())
	}
}

func TestCLARASmallSamples(t *testing.T) {
	X := makeTwoGroups()
	cfg := claraConfig()
	cfg.NSamples = 4
	cfg.NSamplingIters = 5

	c, err := NewCLARA(2, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Fit(X); err != nil {
		t.Fatal(err)
	}
	for _, l := range c.Labels() {
		if l < 0 || l >= 2 {
			t.Fatalf("invalid label %d", l)
		}
	}
}

func TestCLARADeterministic(t *testing.T) {
	X := makeTwoGroups()
	run := func() *CLARA {
		c, err := NewCLARA(2, claraConfig())
		if err != nil {
			t.Fatal(err)
		}
		if err := c.Fit(X); err != nil {
			t.Fatal(err)
		}
		return c
	}
	a, b := run(), run()
	if !equalLabels(a.Labels(), b.Labels()) {
		t.Errorf("same seed produced different labels: %v vs %v", a.Labels(), b.Labels())
	}
	if a.Inertia() != b.Inertia() {
		t.Errorf("same seed produced different inertia: %v vs %v", a.Inertia(), b.Inertia())
	}
}

func TestCLARAPredict(t *testing.T) {
	X := makeTwoGroups()
	c, err := NewCLARA(2, claraConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Predict(X); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Predict before Fit returned %v, want ErrNotFitted", err)
	}
	if err := c.Fit(X); err != nil {
		t.Fatal(err)
	}
	labels, err := c.Predict(X)
	if err != nil {
		t.Fatal(err)
	}
	if !equalLabels(labels, c.Labels()) {
		t.Errorf("Predict on training data %v disagrees with fitted labels %v", labels, c.Labels())
	}
}

func TestCLARAValidation(t *testing.T) {
	if _, err := NewCLARA(0, claraConfig()); !errors.Is(err, ErrInvalidClusterCount) {
		t.Errorf("zero clusters: err = %v, want ErrInvalidClusterCount", err)
	}

	cfg := claraConfig()
	cfg.KMedoids.Distance = "frobnicate"
	if _, err := NewCLARA(2, cfg); !errors.Is(err, ErrUnknownDistanceKind) {
		t.Errorf("unknown distance: err = %v, want ErrUnknownDistanceKind", err)
	}

	c, err := NewCLARA(10, claraConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Fit(makeTwoGroups()); !errors.Is(err, ErrInvalidClusterCount) {
		t.Errorf("too many clusters: err = %v, want ErrInvalidClusterCount", err)
	}
}
