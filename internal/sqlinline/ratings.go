package sqlinline

const QSelectRatingsBetween = `--sql c4d3e2f1-a0b9-4c8d-9e7f-6a5b4c3d2e1f
select r.post_url, r.creator, r.value, r.created_at, coalesce(n.content, '')
from note_ratings r
left join notes n on n.post_url = r.post_url and n.creator = r.creator
where r.created_at >= $1::timestamptz
  and r.created_at < $2::timestamptz
order by r.created_at asc;
`
