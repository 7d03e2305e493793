// Package settings loads the matching configuration: datasource descriptors and
// matching policies.
//
// A settings document is JSON or YAML, read from a local file or from object
// storage ("s3://bucket/key"). The format follows the file extension, or the
// content when the extension says nothing.
//
// # Document
//
//	datasources:
//	  - name: portfolio
//	    matching_role: target
//	    table_name: portfolio
//	    matching_alias: {entity: ENTITY_ID}
//	    map_to_matching:
//	      - {column: tgt_entity_id, source: ENTITY_ID}
//	  - name: no_matching
//	    matching_role: no-matching
//	    table_name: no_matching
//	    matching_id: tgt_id
//	    if_table_exists: clean
//	    create_table: yes
//	matching_policy:
//	  - name: esg
//	    referential: ref_companies
//	    matching: matching
//	    no_matching: no_matching
//	    rules:
//	      dfm:
//	        - {name: by_entity, aliases: [entity]}
//
// Rule types are full, residual and indirect; dfm, drm and ifm are accepted.
// create_table takes true/false, yes/no or 1/0 and nothing else.
//
// # Validation
//
// Parse validates every datasource and policy, and checks that each policy
// names declared datasources of the right roles. All problems are reported
// together; reconcile.IsConfigError recognizes them.
//
// # Usage
//
//	s, err := settings.NewLoader(client).Load(ctx, "s3://settings/esg.yaml")
//	binding, err := s.Bind("esg", "portfolio")
package settings
