package rewriter

import (
	"strings"
	"text/template"

	"ora-cte-fix/internal/model"
)

// statementData fills the named slots of the CTE statement template.
type statementData struct {
	Header      string // anchor comment, including its line break
	Section     string
	AuditOption string
	Table       model.AuditTable
	Column      string
	Remediation string
}

// StmtAudit selects the statement-audit WHERE clause.
func (d statementData) StmtAudit() bool {
	return d.Table == model.StmtAuditTable
}

var cteStatement = template.Must(template.New("cte").Parse(`{{.Header}}WITH CONTAINER_INFO AS (
  SELECT 
    CASE 
      WHEN (SELECT CDB FROM V$DATABASE) = 'YES' AND (SELECT SYS_CONTEXT('USERENV', 'CON_NAME') FROM DUAL) != 'CDB$ROOT' 
      THEN '12c+ PDB (' || (SELECT SYS_CONTEXT('USERENV', 'CON_NAME') FROM DUAL) || ')'
      ELSE '12c+ Non-MT'
    END AS container_desc
  FROM DUAL
)
SELECT '<tr class="' ||
  CASE 
    WHEN COUNT(*) > 0 THEN 'pass'
    ELSE 'fail'
  END || '">' ||
  '<td>{{.Section}}</td>' ||
  '<td>Enable {{.AuditOption}} Audit Option (Scored) - ' || CI.container_desc || '</td>' ||
  '<td>' || CASE WHEN COUNT(*) > 0 THEN 'PASS' ELSE 'FAIL' END || '</td>' ||
  '<td>' || 
    CASE WHEN COUNT(*) > 0 THEN 
      LISTAGG({{.Column}} || ' (SUCCESS:' || SUCCESS || ', FAILURE:' || FAILURE || ')', ', ') WITHIN GROUP (ORDER BY {{.Column}})
    ELSE '{{.AuditOption}} audit not enabled'
    END || '</td>' ||
  '<td>{{.AuditOption}} audit enabled (SUCCESS=BY ACCESS, FAILURE=BY ACCESS)</td>' ||
  '<td class="remediation">{{.Remediation}}</td>' ||
  '</tr>'
FROM {{.Table}}, CONTAINER_INFO CI
{{if .StmtAudit}}WHERE USER_NAME IS NULL 
AND PROXY_NAME IS NULL
AND SUCCESS = 'BY ACCESS' 
AND FAILURE = 'BY ACCESS'
AND {{.Column}}='{{.AuditOption}}'
{{else}}WHERE {{.Column}}='{{.AuditOption}}'
{{end}}AND TO_NUMBER(SUBSTR((SELECT VERSION FROM V$INSTANCE), 1, 2)) >= 12
AND (
  -- Non-multitenant database
  NOT EXISTS (SELECT 1 FROM V$DATABASE WHERE CDB = 'YES')
  OR 
  -- Running from PDB (not CDB$ROOT)
  (EXISTS (SELECT 1 FROM V$DATABASE WHERE CDB = 'YES') AND 
   (SELECT SYS_CONTEXT('USERENV', 'CON_NAME') FROM DUAL) != 'CDB$ROOT')
)
GROUP BY CI.container_desc;`))

// renderStatement builds the CTE form of a report-row statement. The body
// follows the line ending of the header, so CRLF scripts stay CRLF.
func renderStatement(d statementData) string {
	if d.Column == "" {
		d.Column = d.Table.Column()
	}
	header := d.Header
	d.Header = ""

	var b strings.Builder
	// statementData is fixed and strings.Builder never fails, so an error
	// here is a broken template.
	if err := cteStatement.Execute(&b, d); err != nil {
		panic(err)
	}
	body := b.String()
	if strings.HasSuffix(header, "\r\n") {
		body = strings.ReplaceAll(body, "\n", "\r\n")
	}
	return header + body
}
