package sqlinline

const QInsertMintJob = `--sql 2f0c6a8e-5b7d-4c1e-9f43-7a1d2e8b6c05
insert into mint_jobs (id, kind, status, payload, requested_by, country, created_at, updated_at)
values ($1::uuid, $2::text, 'QUEUED', $3::jsonb, nullif($4::text, ''), nullif($5::text, ''), now(), now())
returning id::text;
`

const QClaimMintJob = `--sql 9b3e7d14-0c2a-4f8e-b6a1-3d5c7e9f1a20
with next_job as (
    select id
    from mint_jobs
    where status = 'QUEUED'
       or (status = 'RUNNING'
           and updated_at < now() - make_interval(secs => $1::double precision)
           and attempts < $2::int)
    order by created_at asc
    for update skip locked
    limit 1
),
updated as (
    update mint_jobs
    set status = 'RUNNING', attempts = attempts + 1, updated_at = now()
    where id in (select id from next_job)
    returning id::text, kind, status, payload, coalesce(requested_by, ''), coalesce(country, ''), created_at, updated_at
)
select * from updated;
`

const QCompleteMintJob = `--sql 5d8a1c3f-6e2b-4a7d-8c9e-0f1b2a3c4d5e
update mint_jobs
set status = 'SUCCEEDED', result = $2::jsonb, error_code = null, error = null, updated_at = now()
where id = $1::uuid;
`

const QFailMintJob = `--sql 7e1f2a3b-4c5d-4e6f-8a9b-0c1d2e3f4a5b
update mint_jobs
set status = 'FAILED', error_code = $2::text, error = $3::text, updated_at = now()
where id = $1::uuid;
`

const QSelectMintJob = `--sql 0a9b8c7d-6e5f-4a3b-9c2d-1e0f9a8b7c6d
select id::text, kind, status, payload, coalesce(result, 'null'::jsonb), coalesce(error_code, ''), coalesce(error, ''),
       coalesce(requested_by, ''), coalesce(country, ''), created_at, updated_at
from mint_jobs
where id = $1::uuid;
`

const QExpireMintJobs = `--sql 26ba6c3c-5624-45d1-9926-44942a20dba6
update mint_jobs
set status = 'FAILED',
    error_code = 'lease_expired',
    error = 'worker lease expired after ' || attempts || ' attempts',
    updated_at = now()
where status = 'RUNNING'
  and updated_at < now() - make_interval(secs => $1::double precision)
  and attempts >= $2::int;
`
