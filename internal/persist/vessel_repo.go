package persist

import (
	"context"
	"fmt"

	"github.com/bgres/server/internal/core/ids"
	"github.com/bgres/server/internal/world"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type vesselRow struct {
	ID              ids.VesselID
	Name            string
	TimeLastRefresh float64
}

type resourceRow struct {
	Vessel   ids.VesselID
	Resource string
	Seq      int
	Amount   float64
	Capacity float64
}

type containerRow struct {
	Vessel   ids.VesselID
	Resource string
	Seq      int
	Part     ids.PartID
	Amount   float64
	Capacity float64
}

// VesselRepo saves and loads vessel cache snapshots.
type VesselRepo struct {
	db *DB
}

func NewVesselRepo(db *DB) *VesselRepo {
	return &VesselRepo{db: db}
}

// SaveVessels replaces the saved cache of every given vessel in a single
// transaction.
func (r *VesselRepo) SaveVessels(ctx context.Context, snaps []world.VesselSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	vessels, resources, containers := flattenSnapshots(snaps)

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save vessels begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, v := range vessels {
		batch.Queue(`DELETE FROM vessel_cache WHERE vessel_id = $1`, v.ID.UUID())
		batch.Queue(
			`INSERT INTO vessel_cache (vessel_id, name, time_last_refresh, saved_at)
			 VALUES ($1, $2, $3, now())`,
			v.ID.UUID(), v.Name, v.TimeLastRefresh,
		)
	}
	for _, rr := range resources {
		batch.Queue(
			`INSERT INTO vessel_cache_resource (vessel_id, resource, seq, amount, capacity)
			 VALUES ($1, $2, $3, $4, $5)`,
			rr.Vessel.UUID(), rr.Resource, rr.Seq, rr.Amount, rr.Capacity,
		)
	}
	for _, c := range containers {
		batch.Queue(
			`INSERT INTO vessel_cache_container (vessel_id, resource, seq, part_id, amount, capacity)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			c.Vessel.UUID(), c.Resource, c.Seq, int64(c.Part), c.Amount, c.Capacity,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save vessels: %w", err)
	}
	return tx.Commit(ctx)
}

// LoadVessels reads every saved vessel cache.
func (r *VesselRepo) LoadVessels(ctx context.Context) ([]world.VesselSnapshot, error) {
	var (
		vessels    []vesselRow
		resources  []resourceRow
		containers []containerRow
	)

	rows, err := r.db.Pool.Query(ctx,
		`SELECT vessel_id, name, time_last_refresh FROM vessel_cache ORDER BY saved_at, vessel_id`)
	if err != nil {
		return nil, fmt.Errorf("load vessels: %w", err)
	}
	for rows.Next() {
		var (
			id uuid.UUID
			v  vesselRow
		)
		if err := rows.Scan(&id, &v.Name, &v.TimeLastRefresh); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan vessel: %w", err)
		}
		v.ID = ids.VesselID(id)
		vessels = append(vessels, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load vessels: %w", err)
	}

	rows, err = r.db.Pool.Query(ctx,
		`SELECT vessel_id, resource, seq, amount, capacity FROM vessel_cache_resource ORDER BY vessel_id, seq`)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	for rows.Next() {
		var (
			id uuid.UUID
			rr resourceRow
		)
		if err := rows.Scan(&id, &rr.Resource, &rr.Seq, &rr.Amount, &rr.Capacity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		rr.Vessel = ids.VesselID(id)
		resources = append(resources, rr)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}

	rows, err = r.db.Pool.Query(ctx,
		`SELECT vessel_id, resource, seq, part_id, amount, capacity FROM vessel_cache_container ORDER BY vessel_id, resource, seq`)
	if err != nil {
		return nil, fmt.Errorf("load containers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   uuid.UUID
			part int64
			c    containerRow
		)
		if err := rows.Scan(&id, &c.Resource, &c.Seq, &part, &c.Amount, &c.Capacity); err != nil {
			return nil, fmt.Errorf("scan container: %w", err)
		}
		c.Vessel = ids.VesselID(id)
		c.Part = ids.PartID(part)
		containers = append(containers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load containers: %w", err)
	}

	return assembleSnapshots(vessels, resources, containers), nil
}

// flattenSnapshots splits snapshots into table rows. Seq keeps discovery
// order for resources and member order for containers.
func flattenSnapshots(snaps []world.VesselSnapshot) ([]vesselRow, []resourceRow, []containerRow) {
	vessels := make([]vesselRow, 0, len(snaps))
	var (
		resources  []resourceRow
		containers []containerRow
	)
	for _, vs := range snaps {
		vessels = append(vessels, vesselRow{ID: vs.ID, Name: vs.Name, TimeLastRefresh: vs.TimeLastRefresh})
		for ri, rs := range vs.Resources {
			resources = append(resources, resourceRow{
				Vessel: vs.ID, Resource: rs.Resource, Seq: ri, Amount: rs.Amount, Capacity: rs.Capacity,
			})
			for ci, c := range rs.Containers {
				containers = append(containers, containerRow{
					Vessel: vs.ID, Resource: rs.Resource, Seq: ci, Part: c.Part, Amount: c.Amount, Capacity: c.Capacity,
				})
			}
		}
	}
	return vessels, resources, containers
}

// assembleSnapshots is the inverse of flattenSnapshots. Rows for unknown
// vessels or resources are dropped.
func assembleSnapshots(vessels []vesselRow, resources []resourceRow, containers []containerRow) []world.VesselSnapshot {
	out := make([]world.VesselSnapshot, len(vessels))
	byVessel := make(map[ids.VesselID]int, len(vessels))
	for i, v := range vessels {
		out[i] = world.VesselSnapshot{ID: v.ID, Name: v.Name, TimeLastRefresh: v.TimeLastRefresh}
		byVessel[v.ID] = i
	}

	type resKey struct {
		vessel   ids.VesselID
		resource string
	}
	byResource := make(map[resKey]int, len(resources))
	for _, rr := range resources {
		vi, ok := byVessel[rr.Vessel]
		if !ok {
			continue
		}
		vs := &out[vi]
		byResource[resKey{rr.Vessel, rr.Resource}] = len(vs.Resources)
		vs.Resources = append(vs.Resources, world.ResourceSnapshot{
			Resource: rr.Resource, Amount: rr.Amount, Capacity: rr.Capacity,
		})
	}
	for _, c := range containers {
		vi, ok := byVessel[c.Vessel]
		if !ok {
			continue
		}
		ri, ok := byResource[resKey{c.Vessel, c.Resource}]
		if !ok {
			continue
		}
		rs := &out[vi].Resources[ri]
		rs.Containers = append(rs.Containers, world.ContainerSnapshot{
			Part: c.Part, Amount: c.Amount, Capacity: c.Capacity,
		})
	}
	return out
}
