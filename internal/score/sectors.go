package score

// DefaultSectors returns the built-in sector taxonomy in priority order.
// Each call returns a fresh copy.
func DefaultSectors() SectorTable {
	return SectorTable{
		{
			Name: "EXECUÇÃO",
			Keywords: []string{
				"INDICAR MEIOS", "SEGUIMENTO DA EXECUÇÃO", "SEGUIMENTO DA EXECUCAO", "SOBRESTAMENTO",
				"EXECUÇÃO FISCAL", "EXECUCAO FISCAL", "PENHORA", "HASTA PÚBLICA", "HASTA PUBLICA",
				"LEILÃO", "LEILAO", "EXPROPRIAÇÃO", "EXPROPRIACAO", "SISBAJUD",
				"BLOQUEIO DE CREDITO", "BLOQUEIO DE CRÉDITO", "ATOS EXECUTORIOS", "ATOS EXECUTÓRIOS",
				"INICIADA A EXECUCAO", "INICIADA A EXECUÇÃO", "ORIENTAR A EXECUCAO",
				"ORIENTAR A EXECUÇÃO",
			},
		},
		{
			Name: "ALVARÁ",
			Keywords: []string{
				"EXPEDIDO ALVARÁ", "EXPEDIDO ALVARA", "ALVARÁ DE LEVANTAMENTO",
				"ALVARA DE LEVANTAMENTO", "ALVARÁ JUDICIAL", "ALVARA JUDICIAL",
			},
		},
		{
			Name: "PERÍCIA/QUESITOS",
			Keywords: []string{
				"AGENDAMENTO", "PERÍCIA", "PERICIA", "QUESITOS", "LAUDO PERICIAL", "PERITO",
				"PROVA PERICIAL", "EXAME PERICIAL",
			},
		},
		{
			Name: "FALAR DE LAUDO",
			Keywords: []string{
				"MANIFESTAÇÃO AO LAUDO", "MANIFESTACAO AO LAUDO", "IMPUGNAÇÃO AO LAUDO",
				"IMPUGNACAO AO LAUDO", "LAUDO COMPLEMENTAR", "FALAR SOBRE O LAUDO",
				"MANIFESTAR SOBRE LAUDO",
			},
		},
		{
			Name: "DADOS BANCÁRIOS",
			Keywords: []string{
				"INFORMAR DADOS BANCÁRIOS", "INFORMAR DADOS BANCARIOS", "CONTAS",
				"DADOS PARA TRANSFERÊNCIA", "DADOS PARA TRANSFERENCIA", "HONORÁRIOS", "HONORARIOS",
				"DEPÓSITO", "DEPOSITO", "PAGAMENTO",
			},
		},
		{
			Name: "RECURSAL",
			Keywords: []string{
				"TURMA", "ACÓRDÃO", "ACORDAO", "CONTRARRAZÕES", "CONTRARRAZOES", "CONTRAMINUTA",
				"EMBARGOS", "SENTENÇA", "SENTENCA", "RECURSO", "APELAÇÃO", "APELACAO", "AGRAVO",
				"RECURSO ORDINÁRIO", "RECURSO ORDINARIO",
			},
		},
		{
			Name: "AUDIÊNCIA",
			Keywords: []string{
				"AUDIÊNCIA DESIGNADA", "AUDIENCIA DESIGNADA", "AUDIÊNCIA REDESIGNADA",
				"AUDIENCIA REDESIGNADA", "AUDIÊNCIA CANCELADA", "AUDIENCIA CANCELADA",
				"DATA DA AUDIÊNCIA", "DATA DA AUDIENCIA", "HORA DA AUDIÊNCIA", "HORA DA AUDIENCIA",
				"PAUTA DE AUDIÊNCIA", "PAUTA DE AUDIENCIA", "FOI REDESIGNADA", "FOI DESIGNADA",
				"AUDIENCIA UNA", "AUDIÊNCIA UNA", "AUSENCIA DO RECLAMANTE", "AUSÊNCIA DO RECLAMANTE",
				"REDESIGNO AUDIENCIA", "REDESIGNO AUDIÊNCIA", "REDESIGNO A AUDIENCIA",
				"REDESIGNO A AUDIÊNCIA", "REDESIGNA A AUDIENCIA", "REDESIGNA A AUDIÊNCIA",
				"REDESIGNA-SE A AUDIENCIA", "REDESIGNA-SE A AUDIÊNCIA", "REDESIGNACAO DA AUDIENCIA",
				"REDESIGNAÇÃO DA AUDIÊNCIA", "AUDIENCIA DE INSTRUÇÃO", "AUDIENCIA DE INSTRUCAO",
				"AUDIÊNCIA DE INSTRUÇÃO", "DESIGNO AUDIENCIA", "DESIGNO AUDIÊNCIA",
				"INSTRUÇÃO E JULGAMENTO", "INSTRUCAO E JULGAMENTO", "TENTATIVA DE CONCILIACAO",
				"TENTATIVA DE CONCILIAÇÃO", "AUDIENCIA INICIAL", "AUDIÊNCIA INICIAL",
			},
		},
		{
			Name: "CÁLCULOS",
			Keywords: []string{
				"CONTÁBIL", "CONTABIL", "ARTIGOS DE LIQUIDAÇÃO", "ARTIGOS DE LIQUIDACAO",
				"PLANILHA DE CÁLCULOS", "PLANILHA DE CALCULOS", "FALAR DE CÁLCULOS",
				"FALAR DE CALCULOS", "APRESENTE CÁLCULOS", "APRESENTE CALCULOS", "LIQUIDAÇÃO",
				"LIQUIDACAO", "ATUALIZAÇÃO DE CÁLCULOS", "ATUALIZACAO DE CALCULOS",
			},
		},
		{
			Name: "INICIAL",
			Keywords: []string{
				"EMENDA A INICIAL", "CONEXÃO", "CONEXAO", "JUNTAR INICIAL", "PROCURAÇÃO",
				"PROCURACAO", "EMENDA À INICIAL", "REGULARIZAR INICIAL", "COMPLEMENTAR INICIAL",
			},
		},
		{
			Name: "MANIFESTAÇÃO",
			Keywords: []string{
				"REGULARIZAR POLO", "LITISPENDÊNCIA", "LITISPENDENCIA", "EXCEÇÃO DE INCOMPETÊNCIA",
				"EXCECAO DE INCOMPETENCIA", "PRAZO PARA MANIFESTAÇÃO", "PRAZO PARA MANIFESTACAO",
				"VISTA DOS AUTOS", "MANIFESTE-SE", "MANIFESTE", "FALAR SOBRE A PETICAO",
				"FALAR SOBRE A PETIÇÃO",
			},
		},
		{
			Name: "DOCUMENTOS",
			Keywords: []string{
				"APRESENTE DOCUMENTOS", "JUNTAR DOCUMENTOS", "TRAZER DOCUMENTOS",
				"JUNTADA DE DOCUMENTOS", "DOCUMENTOS FALTANTES",
			},
		},
		{
			Name: "CHC",
			Keywords: []string{
				"HABILITAÇÃO DE CRÉDITO", "HABILITACAO DE CREDITO", "CHC", "CRÉDITO HABILITADO",
				"CREDITO HABILITADO",
			},
		},
		{
			Name: "IMPUGNAÇÃO",
			Keywords: []string{
				"MANIFESTAÇÃO AOS DOCUMENTOS", "MANIFESTACAO AOS DOCUMENTOS", "IMPUGNAÇÃO",
				"IMPUGNACAO", "IMPUGNAR", "CONTESTAÇÃO", "CONTESTACAO",
			},
		},
	}
}
