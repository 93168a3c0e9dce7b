package agg

import (
	"iter"
	"sort"
	"time"

	"github.com/huangsam/gitmine/internal/contract"
	"github.com/huangsam/gitmine/schema"
	"github.com/sirupsen/logrus"
)

// dayBucket accumulates the commits of one calendar day and the tip snapshot taken at its close.
type dayBucket struct {
	summary schema.DailyBranchSummary
	tips    []string
}

// branchTipsFold is the live-tip state machine behind BranchTips.
type branchTipsFold struct {
	live    map[string]int // tip hash -> insertion order
	seq     int
	parents map[string]struct{}
	days    map[string]*dayBucket
	current *dayBucket
}

func newBranchTipsFold() *branchTipsFold {
	return &branchTipsFold{
		live:    make(map[string]int),
		parents: make(map[string]struct{}),
		days:    make(map[string]*dayBucket),
	}
}

// dayKey is the UTC calendar day of the committer date, so committers in different
// offsets share one timeline.
func dayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func (b *branchTipsFold) add(commit schema.Commit) {
	day := dayKey(commit.CommitterDate)
	if b.current == nil || b.current.summary.Day != day {
		b.closeDay()
		bucket, ok := b.days[day]
		if ok {
			contract.Logger().WithFields(logrus.Fields{
				"day":    day,
				"commit": commit.HashShort,
			}).Warn("commit reopens an earlier day; input is not oldest-first")
		} else {
			bucket = &dayBucket{summary: schema.DailyBranchSummary{Day: day}}
			b.days[day] = bucket
		}
		b.current = bucket
	}

	b.live[commit.HashShort] = b.seq
	b.seq++
	for _, p := range commit.Parents {
		delete(b.live, p)
		b.parents[p] = struct{}{}
	}

	s := &b.current.summary
	s.Commits++
	if commit.IsMerge() {
		s.NumberOfCommitsMergedInTheDay++
	}
	for _, f := range commit.Files {
		s.LinesAdded += f.LinesAdded
		s.LinesDeleted += f.LinesDeleted
		s.LinesAddDel += f.LinesAdded + f.LinesDeleted
	}
}

// closeDay snapshots the live tips into the current bucket, in the order they appeared.
func (b *branchTipsFold) closeDay() {
	if b.current == nil {
		return
	}
	tips := make([]string, 0, len(b.live))
	for hash := range b.live {
		tips = append(tips, hash)
	}
	sort.Slice(tips, func(i, j int) bool { return b.live[tips[i]] < b.live[tips[j]] })
	b.current.tips = tips
}

// finalize resolves every snapshot against the parent set of the whole stream.
func (b *branchTipsFold) finalize() []schema.DailyBranchSummary {
	b.closeDay()
	b.current = nil

	days := make([]string, 0, len(b.days))
	for day := range b.days {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]schema.DailyBranchSummary, 0, len(days))
	previous := 0
	for _, day := range days {
		bucket := b.days[day]
		s := bucket.summary
		s.BranchTips = bucket.tips
		s.DeltaBranchTips = len(bucket.tips) - previous
		previous = len(bucket.tips)
		for _, tip := range bucket.tips {
			if _, hasChild := b.parents[tip]; hasChild {
				s.NumberOfBranchTipsWhichWillHaveChildren++
			} else {
				s.NumberOfCommitsWithNoFutureChildren++
			}
		}
		out = append(out, s)
	}
	return out
}

// BranchTips tracks, day by day, the commits that have no child yet.
//
// Commits must arrive oldest-first. Summaries are only returned once the whole stream has been
// consumed, because whether a tip ever gains a child is known only at the end.
func BranchTips(commits iter.Seq2[schema.Commit, error]) ([]schema.DailyBranchSummary, error) {
	acc := newBranchTipsFold()
	for commit, err := range commits {
		if err != nil {
			return nil, err
		}
		acc.add(commit)
	}
	return acc.finalize(), nil
}
