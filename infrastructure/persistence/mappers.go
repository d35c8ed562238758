package persistence

import (
	"cmp"
	"slices"
	"strings"

	"github.com/helixml/cgc/domain/genecall"
	"github.com/helixml/cgc/domain/reconcile"
)

// RunMapper maps between reconcile.Run and RunModel.
type RunMapper struct{}

// ToDomain converts a RunModel to a domain Run.
func (m RunMapper) ToDomain(e RunModel) reconcile.Run {
	return reconcile.ReconstructRun(
		e.ID,
		e.CreatedAt,
		splitCallers(e.Callers),
		e.TotalCallers,
		e.LocusCount,
		e.CommonCoreCount,
	)
}

// ToModel converts a domain Run to a RunModel.
func (m RunMapper) ToModel(r reconcile.Run) RunModel {
	return RunModel{
		ID:              r.ID(),
		Callers:         strings.Join(r.Callers(), ","),
		TotalCallers:    r.TotalCallers(),
		LocusCount:      r.LocusCount(),
		CommonCoreCount: r.CommonCoreCount(),
		CreatedAt:       r.CreatedAt(),
	}
}

// LocusMapper maps between reconcile.StoredLocus and LocusModel.
type LocusMapper struct{}

// ToDomain converts a LocusModel, with its members preloaded, to a StoredLocus.
// Members are ordered by caller.
func (m LocusMapper) ToDomain(e LocusModel) reconcile.StoredLocus {
	members := make([]genecall.Call, len(e.Members))
	for i, mm := range e.Members {
		members[i] = memberToDomain(mm)
	}
	slices.SortFunc(members, func(a, b genecall.Call) int {
		return cmp.Compare(a.Caller(), b.Caller())
	})

	return reconcile.ReconstructStoredLocus(
		e.ID,
		e.RunID,
		e.Contig,
		genecall.Strand(e.Strand),
		e.StartPos,
		e.EndPos,
		e.AgreementCount,
		e.Score,
		e.CommonCore,
		e.RepresentativeCaller,
		members,
	)
}

// ToModel converts a StoredLocus to a LocusModel.
func (m LocusMapper) ToModel(s reconcile.StoredLocus) LocusModel {
	members := s.Members()
	model := LocusModel{
		ID:                   s.ID(),
		RunID:                s.RunID(),
		Contig:               s.Contig(),
		Strand:               string(s.Strand()),
		StartPos:             s.Start(),
		EndPos:               s.End(),
		AgreementCount:       s.AgreementCount(),
		Score:                s.Score(),
		CommonCore:           s.IsCommonCore(),
		RepresentativeCaller: s.RepresentativeCaller(),
		Callers:              joinMemberCallers(members),
		Members:              make([]LocusMemberModel, len(members)),
	}
	if len(members) > 0 {
		model.StopPos = members[0].StopCoordinate()
	}
	for i, c := range members {
		model.Members[i] = memberToModel(s.ID(), c)
	}
	return model
}

// locusToModel builds the row for a freshly merged locus.
func locusToModel(runID int64, seq int, l *reconcile.Locus) LocusModel {
	members := l.Members()
	model := LocusModel{
		RunID:                runID,
		Seq:                  seq,
		Contig:               l.Contig(),
		Strand:               string(l.Strand()),
		StartPos:             l.RepresentativeStart(),
		EndPos:               l.RepresentativeEnd(),
		StopPos:              l.StopCoordinate(),
		AgreementCount:       l.AgreementCount(),
		Score:                l.Score(),
		CommonCore:           l.IsCommonCore(),
		RepresentativeCaller: l.RepresentativeCaller(),
		Callers:              l.CallerList(),
		Members:              make([]LocusMemberModel, len(members)),
	}
	for i, c := range members {
		model.Members[i] = memberToModel(0, c)
	}
	return model
}

func memberToDomain(e LocusMemberModel) genecall.Call {
	return genecall.ReconstructCall(
		e.Contig,
		e.StartPos,
		e.EndPos,
		genecall.Strand(e.Strand),
		e.Caller,
		e.Label,
		e.Product,
	)
}

func memberToModel(locusID int64, c genecall.Call) LocusMemberModel {
	return LocusMemberModel{
		LocusID:  locusID,
		Caller:   c.Caller(),
		Contig:   c.Contig(),
		Strand:   string(c.Strand()),
		StartPos: c.Start(),
		EndPos:   c.End(),
		Label:    c.Label(),
		Product:  c.Product(),
	}
}

func joinMemberCallers(members []genecall.Call) string {
	names := make([]string, len(members))
	for i, c := range members {
		names[i] = c.Caller()
	}
	slices.Sort(names)
	return strings.Join(names, ",")
}

func splitCallers(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
